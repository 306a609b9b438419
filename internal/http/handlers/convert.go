package handlers

import "github.com/localkart/dispatch/internal/domain"

func assignmentToDTO(a *domain.Assignment) assignmentDTO {
	return assignmentDTO{
		ID:                a.ID,
		OrderID:           a.OrderID,
		PartnerID:         a.PartnerID,
		AssignedBy:        a.AssignedBy,
		Status:            string(a.Status),
		Type:              string(a.Type),
		AssignedAt:        a.AssignedAt,
		AcceptedAt:        a.AcceptedAt,
		RejectedAt:        a.RejectedAt,
		PickupTime:        a.PickupTime,
		DeliveredAt:       a.DeliveredAt,
		DeliveryFee:       a.DeliveryFee,
		PartnerCommission: a.PartnerCommission,
		PickupOTP:         a.PickupOTP,
		AssignmentNotes:   a.AssignmentNotes,
		DeliveryNotes:     a.DeliveryNotes,
		RejectionReason:   a.RejectionReason,
	}
}

func assignmentsToDTO(list []domain.Assignment) []assignmentDTO {
	out := make([]assignmentDTO, 0, len(list))
	for i := range list {
		out = append(out, assignmentToDTO(&list[i]))
	}
	return out
}

func partnerToDTO(p *domain.DeliveryPartner) partnerDTO {
	return partnerDTO{
		ID:             p.ID,
		Name:           p.Name,
		Phone:          p.Phone,
		Online:         p.Online,
		Available:      p.Available,
		RideStatus:     string(p.RideStatus),
		CurrentLat:     p.CurrentLat,
		CurrentLng:     p.CurrentLng,
		LastActivityAt: p.LastActivityAt,
		LastLocationAt: p.LastLocationAt,
	}
}

func locationToDTO(l *domain.PartnerLocation) locationDTO {
	return locationDTO{
		ID:           l.ID,
		PartnerID:    l.PartnerID,
		Lat:          l.Lat,
		Lng:          l.Lng,
		AccuracyM:    l.AccuracyM,
		SpeedMPS:     l.SpeedMPS,
		HeadingDeg:   l.HeadingDeg,
		IsMoving:     l.IsMoving,
		AssignmentID: l.AssignmentID,
		OrderStatus:  l.OrderStatus,
		RecordedAt:   l.RecordedAt,
	}
}

func locationsToDTO(list []domain.PartnerLocation) []locationDTO {
	out := make([]locationDTO, 0, len(list))
	for i := range list {
		out = append(out, locationToDTO(&list[i]))
	}
	return out
}
