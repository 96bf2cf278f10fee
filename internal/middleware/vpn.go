package middleware

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"regexp"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	gocache "github.com/patrickmn/go-cache"

	"cafefresco/internal/config"
)

var (
	ipv4Pattern = regexp.MustCompile(`^(?:\d{1,3}\.){3}\d{1,3}$`)
	ipv6Pattern = regexp.MustCompile(`^([0-9a-fA-F]{0,4}:){2,7}[0-9a-fA-F]{0,4}$`)
)

type vpnVerdict struct {
	IsVPN bool
}

type vpnAPIResponse struct {
	Security struct {
		VPN   bool `json:"vpn"`
		Proxy bool `json:"proxy"`
		Tor   bool `json:"tor"`
	} `json:"security"`
}

// VPNDetect blocks requests from VPN/proxy/tor addresses. Lookup results
// are cached per IP with a bounded TTL; local addresses and non-production
// runs skip the check entirely.
func VPNDetect(cfg config.Config) gin.HandlerFunc {
	cache := gocache.New(time.Hour, 10*time.Minute)
	client := &http.Client{Timeout: 5 * time.Second}

	return func(c *gin.Context) {
		ip := c.ClientIP()

		if !cfg.IsProduction() || isLocalAddress(ip) {
			c.Next()
			return
		}

		if !ipv4Pattern.MatchString(ip) && !ipv6Pattern.MatchString(ip) {
			c.AbortWithStatusJSON(http.StatusBadRequest, gin.H{"message": "Invalid IP address"})
			return
		}

		if cached, ok := cache.Get(ip); ok {
			if verdict, ok := cached.(vpnVerdict); ok {
				if verdict.IsVPN {
					c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied. VPN usage detected."})
					return
				}
				c.Next()
				return
			}
		}

		isVPN, err := lookupVPN(client, cfg.VPNAPIKey, ip)
		if err != nil {
			log.Println("[VPN] [ERROR] lookup failed:", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": "VPN detection failed"})
			return
		}

		cache.Set(ip, vpnVerdict{IsVPN: isVPN}, time.Hour)

		if isVPN {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"message": "Access denied. VPN usage detected."})
			return
		}
		c.Next()
	}
}

func isLocalAddress(ip string) bool {
	return ip == "::1" || ip == "127.0.0.1" || strings.HasPrefix(ip, "::ffff:127.")
}

func lookupVPN(client *http.Client, apiKey, ip string) (bool, error) {
	url := fmt.Sprintf("https://vpnapi.io/api/%s?key=%s", ip, apiKey)

	resp, err := client.Get(url)
	if err != nil {
		return false, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return false, fmt.Errorf("vpnapi status %d", resp.StatusCode)
	}

	var body vpnAPIResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return false, err
	}

	return body.Security.VPN || body.Security.Proxy || body.Security.Tor, nil
}
