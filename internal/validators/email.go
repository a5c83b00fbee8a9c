package validators

import (
	"net"
	"strings"
)

// Resolver is the DNS lookup used by IsEmailDomainValid.
type Resolver interface {
	LookupMX(host string) ([]*net.MX, error)
	LookupIP(host string) ([]net.IP, error)
}

type netResolver struct{}

func (netResolver) LookupMX(host string) ([]*net.MX, error) { return net.LookupMX(host) }
func (netResolver) LookupIP(host string) ([]net.IP, error)  { return net.LookupIP(host) }

var DefaultResolver Resolver = netResolver{}

// IsEmailDomainValid reports whether the domain of email accepts mail: it
// has an MX record or at least resolves.
func IsEmailDomainValid(email string) bool {
	return emailDomainValid(DefaultResolver, email)
}

func emailDomainValid(r Resolver, email string) bool {
	at := strings.LastIndex(email, "@")
	if at < 0 || at == len(email)-1 {
		return false
	}

	domain := email[at+1:]

	if mx, err := r.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	if ips, err := r.LookupIP(domain); err == nil && len(ips) > 0 {
		return true
	}

	return false
}
