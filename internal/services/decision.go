package services

import (
	"math/rand"
	"sync"
	"time"
)

// ApprovalPolicy decides simulated underwriting outcomes. The decision is
// independent of application content; only the configured rejection rate
// matters. Implementations must be safe for concurrent use.
type ApprovalPolicy interface {
	// Approve returns true when the application passes, given a rejection
	// rate in [0,1].
	Approve(rejectionRate float64) bool
}

// ApprovalPolicyFunc adapts a function to the ApprovalPolicy interface.
type ApprovalPolicyFunc func(rejectionRate float64) bool

func (f ApprovalPolicyFunc) Approve(rejectionRate float64) bool {
	return f(rejectionRate)
}

// ApproveAll always approves. Intended for tests.
var ApproveAll = ApprovalPolicyFunc(func(float64) bool { return true })

// RejectAll always rejects. Intended for tests.
var RejectAll = ApprovalPolicyFunc(func(float64) bool { return false })

type randomApprovalPolicy struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewRandomApprovalPolicy returns the production policy: approve unless a
// uniform draw lands inside the rejection rate.
func NewRandomApprovalPolicy() ApprovalPolicy {
	return &randomApprovalPolicy{
		rng: rand.New(rand.NewSource(time.Now().UnixNano())),
	}
}

func (p *randomApprovalPolicy) Approve(rejectionRate float64) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.rng.Float64() >= rejectionRate
}
