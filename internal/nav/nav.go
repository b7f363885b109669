package nav

// Paths served by the portal.
const (
	Root    = "/"
	SignIn  = "/signin"
	SignUp  = "/signup"
	SignOut = "/signout"
	Weather = "/weather"
	History = "/history"
)

// Directive tells the caller where to go next. Replace means the current
// page must not stay reachable through back-navigation.
type Directive struct {
	To      string
	Replace bool
}

// Navigate receives a directive once a session transition completes.
type Navigate func(Directive)

// Recorder keeps the last directive it was handed so an HTTP handler can
// turn it into a redirect after the transition returns.
type Recorder struct {
	last *Directive
}

// Navigate records d. It satisfies the Navigate signature as a method value.
func (r *Recorder) Navigate(d Directive) {
	r.last = &d
}

// Last returns the recorded directive, if any.
func (r *Recorder) Last() (Directive, bool) {
	if r.last == nil {
		return Directive{}, false
	}
	return *r.last, true
}
