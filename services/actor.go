package services

import "lagoon-hotel-backend/models"

// Actor identifies who is asking for a lifecycle change. It is passed
// explicitly into every call that needs role gating; services never read
// ambient session state.
type Actor struct {
	Role     string
	StaffID  uint
	ClientID uint
}

func (a Actor) IsStaff() bool {
	return a.Role == models.RoleReceptionist || a.Role == models.RoleAdmin
}

func (a Actor) IsAdmin() bool {
	return a.Role == models.RoleAdmin
}

// GuestActor builds the actor for a self-service client request.
func GuestActor(clientID uint) Actor {
	return Actor{Role: models.RoleGuest, ClientID: clientID}
}
