package domain

import "testing"

func TestNormalizeDomain(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"bare domain", "example.com", "example.com"},
		{"uppercase", "EXAMPLE.COM", "example.com"},
		{"https scheme", "https://example.com", "example.com"},
		{"http scheme", "http://example.com", "example.com"},
		{"www prefix", "www.example.com", "example.com"},
		{"scheme and www", "https://www.example.com", "example.com"},
		{"path stripped", "https://example.com/about/team", "example.com"},
		{"query stripped", "example.com?utm_source=x", "example.com"},
		{"fragment stripped", "example.com#section", "example.com"},
		{"port stripped", "example.com:8080", "example.com"},
		{"trailing dot", "example.com.", "example.com"},
		{"surrounding whitespace", "  example.com  ", "example.com"},
		{"subdomain preserved", "https://shop.example.co.uk/cart", "shop.example.co.uk"},
		{"empty", "", ""},
		{"whitespace only", "   ", ""},
		{"no dot", "localhost", ""},
		{"scheme only", "https://", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeDomain(tt.in); got != tt.want {
				t.Fatalf("NormalizeDomain(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestCacheEntryRecordCarriesAllSlots(t *testing.T) {
	entry := &CacheEntry{Domain: "example.com"}
	record := entry.Record()

	if record.Domain != "example.com" {
		t.Fatalf("expected domain to carry over, got %q", record.Domain)
	}
	if record.Company != nil || record.SEO != nil || record.Tech != nil {
		t.Fatalf("absent slots must stay nil")
	}
}
