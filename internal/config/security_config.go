// config/security_config.go
package config

type SecurityLevel int

const (
	SecurityPublic SecurityLevel = iota // No authentication
	SecurityCron                        // Shared cron bearer secret required
	SecurityAdmin                       // Admin token required
)

// RouteSecurity maps mux route names to their required security level
var RouteSecurity = map[string]SecurityLevel{
	// Visitor
	"redirect": SecurityPublic,
	"healthz":  SecurityPublic,

	// Admin API
	"invite.get":      SecurityAdmin,
	"invite.update":   SecurityAdmin,
	"invite.validate": SecurityAdmin,

	// Scheduled check
	"cron.check-invite": SecurityCron,
}

// GetSecurityLevel returns the security level for a given route name
func GetSecurityLevel(route string) SecurityLevel {
	if level, exists := RouteSecurity[route]; exists {
		return level
	}
	// Default to highest security for unknown routes
	return SecurityAdmin
}
