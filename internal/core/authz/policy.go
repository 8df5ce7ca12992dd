// Package authz holds the single authorization decision function. Every
// mutating operation in the service layer funnels through Decide instead of
// re-implementing inline role checks per resource type.
package authz

import "github.com/kanbanhq/kanban-api/internal/core/domain"

// Action categorizes the mutation being authorized.
type Action string

const (
	ActionRead          Action = "read"
	ActionCreate        Action = "create"
	ActionUpdate        Action = "update"
	ActionDelete        Action = "delete"
	ActionMove          Action = "move"
	ActionChangeRole    Action = "change_role"
	ActionUpdateAccount Action = "update_account"
)

// Decide is a pure function mapping (requester, resource owner, action) to
// allow (nil) or deny (domain.ErrForbidden). Rules in order, first match wins:
//
//  1. Admins may do everything.
//  2. Changing a role is admin-only, even on the requester's own account.
//  3. Account email/password updates are allowed for the account holder.
//  4. Owners may read, create under, update, delete, and move their own
//     resources.
//  5. Everything else is denied.
func Decide(requester *domain.User, ownerID string, action Action) error {
	if requester == nil {
		return domain.ErrForbidden
	}
	if requester.IsAdmin() {
		return nil
	}
	if action == ActionChangeRole {
		return domain.ErrForbidden
	}
	if action == ActionUpdateAccount {
		if requester.ID == ownerID {
			return nil
		}
		return domain.ErrForbidden
	}
	if requester.ID == ownerID {
		return nil
	}
	return domain.ErrForbidden
}

// DecideMove authorizes reassigning a card from its current list to a
// destination list. The policy is applied twice: the requester must be
// allowed to update the card itself AND to create under the destination
// list. A denial on the destination carries a distinct reason.
func DecideMove(requester *domain.User, cardOwnerID, destListOwnerID string) error {
	if err := Decide(requester, cardOwnerID, ActionUpdate); err != nil {
		return err
	}
	if err := Decide(requester, destListOwnerID, ActionCreate); err != nil {
		return domain.ErrForbiddenMove
	}
	return nil
}
