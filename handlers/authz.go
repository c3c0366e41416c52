package handlers

import (
	"gymdash-api/models"
)

// Action names every permission-checked operation. The capability table
// below keeps role/ownership rules in one place to audit who may do what.
type Action string

const (
	ActionListUsers        Action = "users.list"
	ActionCreateUser       Action = "users.create"
	ActionReadUser         Action = "users.read"
	ActionUpdateAnyUser    Action = "users.update_any"
	ActionDeleteAnyUser    Action = "users.delete_any"
	ActionManageActivities Action = "activities.manage"
	ActionViewUserData     Action = "users.view_data"
	ActionTriggerBackup    Action = "admin.backup"
)

// relation is how the acting user stands to the resource owner.
type relation struct {
	superuser bool
	trainer   bool
	self      bool
}

// capabilities maps each action to the relations allowed to perform it.
var capabilities = map[Action]relation{
	ActionListUsers:        {superuser: true, trainer: true},
	ActionCreateUser:       {superuser: true, trainer: true},
	ActionReadUser:         {superuser: true, trainer: true, self: true},
	ActionUpdateAnyUser:    {superuser: true},
	ActionDeleteAnyUser:    {superuser: true},
	ActionManageActivities: {superuser: true, trainer: true, self: true},
	ActionViewUserData:     {superuser: true, trainer: true, self: true},
	ActionTriggerBackup:    {superuser: true},
}

// allowed evaluates the capability table. ownerID is the id of the user the
// action targets; pass "" for actions without a target user.
func allowed(action Action, current *models.User, ownerID string) bool {
	caps, ok := capabilities[action]
	if !ok {
		return false
	}
	if caps.superuser && current.IsSuperuser {
		return true
	}
	if caps.trainer && current.Role == models.RoleTrainer {
		return true
	}
	if caps.self && ownerID != "" && ownerID == current.ID {
		return true
	}
	return false
}
