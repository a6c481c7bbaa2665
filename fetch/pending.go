package fetch

import (
	"time"

	"github.com/fetchsim/fetchsim/response"
)

// Pending is a dispatch waiting out its simulated delay. It never fails.
type Pending struct {
	done chan struct{}
	resp *response.Response
}

func newPending() *Pending {
	return &Pending{done: make(chan struct{})}
}

// Done is closed once the response is available.
func (p *Pending) Done() <-chan struct{} {
	return p.done
}

// Wait blocks until the response resolves and returns it.
func (p *Pending) Wait() *response.Response {
	<-p.done
	return p.resp
}

// resolveAfter publishes resp once d has elapsed. onResolve, when set, runs
// just before Done is closed.
func (p *Pending) resolveAfter(d time.Duration, resp *response.Response, onResolve func()) {
	if d > 0 {
		t := time.NewTimer(d)
		<-t.C
	}
	if onResolve != nil {
		onResolve()
	}
	p.resp = resp
	close(p.done)
}
