package out

import (
	"context"

	bookout "readlog/internal/modules/book/port/out"
	sessiondto "readlog/internal/modules/session/dto"
	sessionin "readlog/internal/modules/session/port/in"
)

type SessionEnrollerAdapter struct {
	sessions sessionin.Usecase
}

func NewSessionEnrollerAdapter(sessions sessionin.Usecase) bookout.Enroller {
	return &SessionEnrollerAdapter{sessions: sessions}
}

func (a *SessionEnrollerAdapter) Enroll(ctx context.Context, bookID, status string) (bookout.Enrollment, error) {
	session, err := a.sessions.Enroll(ctx, sessiondto.EnrollInput{BookID: bookID, Status: status})
	if err != nil {
		return bookout.Enrollment{}, err
	}
	return bookout.Enrollment{SessionID: session.ID, Status: session.Status}, nil
}
