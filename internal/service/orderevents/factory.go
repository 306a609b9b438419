package orderevents

import (
	"context"
	"strings"
)

type actionFunc func(context.Context, Event) error

type actionFactory struct {
	byStatus map[string]actionFunc
}

func newActionFactory(onReady, onCancelled actionFunc) *actionFactory {
	return &actionFactory{
		byStatus: map[string]actionFunc{
			"ready_for_pickup": onReady,
			"cancelled":        onCancelled,
			"refunded":         onCancelled,
		},
	}
}

func (f *actionFactory) get(status string) (actionFunc, bool) {
	status = strings.ToLower(strings.TrimSpace(status))
	fn, ok := f.byStatus[status]
	return fn, ok
}
