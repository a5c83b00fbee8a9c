package validators

import (
	"errors"
	"net"
	"testing"

	"github.com/stretchr/testify/assert"
)

type fakeResolver struct {
	mx  map[string]bool
	ips map[string]bool
}

func (f fakeResolver) LookupMX(host string) ([]*net.MX, error) {
	if f.mx[host] {
		return []*net.MX{{Host: "mx." + host}}, nil
	}
	return nil, errors.New("no mx")
}

func (f fakeResolver) LookupIP(host string) ([]net.IP, error) {
	if f.ips[host] {
		return []net.IP{net.IPv4(127, 0, 0, 1)}, nil
	}
	return nil, errors.New("no host")
}

func TestEmailDomainValid(t *testing.T) {
	r := fakeResolver{
		mx:  map[string]bool{"mail.example.com": true},
		ips: map[string]bool{"web.example.com": true},
	}

	assert.True(t, emailDomainValid(r, "a@mail.example.com"))
	assert.True(t, emailDomainValid(r, "a@web.example.com"))
	assert.False(t, emailDomainValid(r, "a@nowhere.invalid"))
	assert.False(t, emailDomainValid(r, "no-at-sign"))
	assert.False(t, emailDomainValid(r, "trailing@"))
}

func TestSlug(t *testing.T) {
	assert.Equal(t, "sparkle-clean", NormalizeSlug("  Sparkle-Clean "))

	for _, ok := range []string{"abc", "sparkle-clean", "crew-24"} {
		assert.True(t, IsSlugValid(ok), ok)
	}
	for _, bad := range []string{"", "ab", "-lead", "trail-", "double--dash", "Upper", "with space"} {
		assert.False(t, IsSlugValid(bad), bad)
	}
}
