package container

import (
	"fmt"
	"strings"

	"go.uber.org/zap"
)

// Option is a function that configures a Container.
type Option func(*Container) error

// CollisionPolicy decides what happens when a key is registered again.
type CollisionPolicy int

const (
	// CollisionMultiBind keeps every registration. Make resolves the most
	// recent one and MakeAll resolves all of them.
	CollisionMultiBind CollisionPolicy = iota

	// CollisionReject refuses a second registration for a key with a
	// BindingAlreadyExistsError.
	CollisionReject
)

func (p CollisionPolicy) String() string {
	switch p {
	case CollisionMultiBind:
		return "multibind"
	case CollisionReject:
		return "reject"
	default:
		return "unknown"
	}
}

// ParseCollisionPolicy converts "multibind" or "reject" into a policy.
func ParseCollisionPolicy(s string) (CollisionPolicy, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "multibind":
		return CollisionMultiBind, nil
	case "reject":
		return CollisionReject, nil
	default:
		return 0, fmt.Errorf("unknown collision policy %q", s)
	}
}

// WithCollisionPolicy sets the policy applied to repeated keys.
// The default is CollisionMultiBind.
func WithCollisionPolicy(policy CollisionPolicy) Option {
	return func(c *Container) error {
		if policy != CollisionMultiBind && policy != CollisionReject {
			return fmt.Errorf("unknown collision policy %d", int(policy))
		}
		c.policy = policy
		return nil
	}
}

// WithLogger sets the logger that records registrations.
func WithLogger(logger *zap.Logger) Option {
	return func(c *Container) error {
		if logger == nil {
			return fmt.Errorf("logger cannot be nil")
		}
		c.logger = logger
		return nil
	}
}
