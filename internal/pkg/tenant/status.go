package tenant

import "github.com/ManuelReschke/PosCloud/app/models"

// transitions lists the statuses reachable from each status. Staying in
// the same status is always allowed.
var transitions = map[models.TenantStatus][]models.TenantStatus{
	models.TenantStatusTrial:     {models.TenantStatusActive, models.TenantStatusSuspended, models.TenantStatusExpired},
	models.TenantStatusActive:    {models.TenantStatusSuspended, models.TenantStatusExpired},
	models.TenantStatusSuspended: {models.TenantStatusActive, models.TenantStatusExpired},
	models.TenantStatusExpired:   {models.TenantStatusActive},
}

// CanTransition reports whether an administrator may move a tenant from one
// status to another. A tenant never returns to trial.
func CanTransition(from, to models.TenantStatus) bool {
	if !from.Valid() || !to.Valid() {
		return false
	}
	if from == to {
		return true
	}
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
