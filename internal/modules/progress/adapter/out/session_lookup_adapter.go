package out

import (
	"context"

	progressout "readlog/internal/modules/progress/port/out"
	sessionin "readlog/internal/modules/session/port/in"
)

type SessionLookupAdapter struct {
	sessions sessionin.Queries
}

func NewSessionLookupAdapter(sessions sessionin.Queries) progressout.SessionLookup {
	return &SessionLookupAdapter{sessions: sessions}
}

func (a *SessionLookupAdapter) FindSession(ctx context.Context, sessionID string) (progressout.SessionRef, error) {
	session, err := a.sessions.GetSession(ctx, sessionID)
	if err != nil {
		return progressout.SessionRef{}, err
	}
	return progressout.SessionRef{ID: session.ID, BookID: session.BookID, Active: session.IsActive}, nil
}
