package guard

import "testing"

type stubSession struct {
	loggedIn bool
	reads    int
}

func (s *stubSession) IsLoggedIn() bool {
	s.reads++
	return s.loggedIn
}

func TestCheckAllowsAuthenticated(t *testing.T) {
	s := &stubSession{loggedIn: true}
	d := Check(s)
	if !d.Allowed || d.RedirectTo != "" {
		t.Errorf("Check = %+v; want allow", d)
	}
}

func TestCheckRedirectsAnonymous(t *testing.T) {
	s := &stubSession{}
	d := Check(s)
	if d.Allowed || d.RedirectTo != LoginRoute {
		t.Errorf("Check = %+v; want redirect to %s", d, LoginRoute)
	}
}

func TestCheckReadsSessionOnce(t *testing.T) {
	s := &stubSession{loggedIn: true}
	Check(s)
	if s.reads != 1 {
		t.Errorf("expected a single lazy read, got %d", s.reads)
	}
}
