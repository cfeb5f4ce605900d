package service

import (
	"github.com/rs/zerolog"

	"github.com/optatrack/account-service/internal/api/metrics"
	"github.com/optatrack/account-service/internal/core/domain"
)

// Policy is a declarative access rule evaluated against a claim set.
// Every policy requires authentication; AnyRole additionally requires at
// least one role claim from the listed set.
type Policy struct {
	Name    string
	AnyRole []string
}

// PolicyEvaluator decides allow/deny for named policies. It is pure and
// total: any claim set (including empty) and any policy name (including
// unknown) produce a decision, never a panic or an error.
type PolicyEvaluator struct {
	policies map[string]Policy
	logger   zerolog.Logger
}

// NewPolicyEvaluator registers the built-in policy table:
//
//	Admin → authenticated AND role in {Admin, Owner}
//	Owner → authenticated AND role in {Owner, Super_Admin}
//	User  → authenticated
func NewPolicyEvaluator(logger zerolog.Logger) *PolicyEvaluator {
	e := &PolicyEvaluator{policies: make(map[string]Policy), logger: logger}
	e.register(Policy{Name: domain.RoleAdmin, AnyRole: []string{domain.RoleAdmin, domain.RoleOwner}})
	e.register(Policy{Name: domain.RoleOwner, AnyRole: []string{domain.RoleOwner, domain.RoleSuperAdmin}})
	e.register(Policy{Name: domain.RoleUser})
	return e
}

func (e *PolicyEvaluator) register(p Policy) {
	e.policies[p.Name] = p
}

// Evaluate reports whether the claim set satisfies the named policy.
// Unknown policy names deny (fail closed) and are logged as a configuration
// defect. The authentication check short-circuits the role check.
func (e *PolicyEvaluator) Evaluate(claims domain.ClaimSet, policyName string) bool {
	allowed := e.evaluate(claims, policyName)
	metrics.AuthzDecisionsTotal.WithLabelValues(policyName, decisionLabel(allowed)).Inc()
	return allowed
}

func (e *PolicyEvaluator) evaluate(claims domain.ClaimSet, policyName string) bool {
	policy, ok := e.policies[policyName]
	if !ok {
		e.logger.Error().Str("policy", policyName).Msg("unknown authorization policy")
		return false
	}

	if !claims.Authenticated() {
		return false
	}
	if len(policy.AnyRole) == 0 {
		return true
	}

	allowed := make(map[string]struct{}, len(policy.AnyRole))
	for _, r := range policy.AnyRole {
		allowed[r] = struct{}{}
	}
	for _, role := range claims.Roles() {
		if _, ok := allowed[role]; ok {
			return true
		}
	}
	return false
}

func decisionLabel(allowed bool) string {
	if allowed {
		return "allow"
	}
	return "deny"
}
