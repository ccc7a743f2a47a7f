package middleware

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/vzorr/musta-website/shared"
)

// ClientKey derives the best-effort client identifier from proxy
// headers. Clients behind shared NAT or proxies collapse into one key;
// unidentifiable clients all pool into the "unknown" bucket.
func ClientKey(c *fiber.Ctx) string {
	forwarded := c.Get("X-Forwarded-For")
	if forwarded != "" {
		ips := strings.Split(forwarded, ",")
		ip := strings.TrimSpace(ips[0])
		if ip != "" {
			return ip
		}
	}

	realIP := c.Get("X-Real-IP")
	if realIP != "" {
		return realIP
	}

	cfIP := c.Get("CF-Connecting-IP")
	if cfIP != "" {
		return cfIP
	}

	return shared.ClientKeyUnknown
}
