package service

import (
	"context"
	"errors"

	"github.com/therapyai/caseload/internal/core/domain"
)

// Navigator receives the redirect a failed guard check asks for.
type Navigator interface {
	Navigate(page domain.Page)
}

// NavigatorFunc adapts a function to Navigator.
type NavigatorFunc func(page domain.Page)

func (f NavigatorFunc) Navigate(page domain.Page) { f(page) }

// Guard holds the role predicates. Failed checks return false and navigate
// to the login page; they never return an error. This is a navigation gate,
// not a security boundary.
type Guard struct {
	tables *Tables
}

func NewGuard(tables *Tables) *Guard {
	return &Guard{tables: tables}
}

func (g *Guard) RequireAdmin(sess domain.Session, nav Navigator) bool {
	return g.require(sess.IsAdmin(), nav)
}

func (g *Guard) RequireTherapist(sess domain.Session, nav Navigator) bool {
	return g.require(sess.IsTherapist(), nav)
}

func (g *Guard) RequireAuth(sess domain.Session, nav Navigator) bool {
	return g.require(sess.IsAuthenticated(), nav)
}

func (g *Guard) require(ok bool, nav Navigator) bool {
	if !ok && nav != nil {
		nav.Navigate(domain.PageLogin)
	}
	return ok
}

// CanAccessChild reports whether sess may open the child's workspace: admins
// always, therapists only for their own children, anonymous never.
func (g *Guard) CanAccessChild(ctx context.Context, sess domain.Session, childID string) (bool, error) {
	if !sess.IsAuthenticated() {
		return false, nil
	}
	if sess.IsAdmin() {
		return true, nil
	}
	child, err := g.tables.findChild(ctx, childID)
	if errors.Is(err, domain.ErrChildNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return g.owns(sess, child), nil
}

func (g *Guard) owns(sess domain.Session, child *domain.Child) bool {
	if sess.IsAdmin() {
		return true
	}
	return sess.IsTherapist() && child.TherapistID == sess.UserID
}

// DashboardFor returns the landing page of the session's role.
func DashboardFor(sess domain.Session) domain.Page {
	switch {
	case sess.IsAdmin():
		return domain.PageAdmin
	case sess.IsTherapist():
		return domain.PageTherapist
	default:
		return domain.PageLogin
	}
}
