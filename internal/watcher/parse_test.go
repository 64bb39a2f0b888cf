package watcher

import "testing"

func TestParseAddresses(t *testing.T) {
	got, err := ParseAddresses([]string{
		"0x1111111111111111111111111111111111111111",
		" 0x2222222222222222222222222222222222222222 ",
		"",
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("addresses: got %d, want 2", len(got))
	}
}

func TestParseAddressesInvalid(t *testing.T) {
	if _, err := ParseAddresses([]string{"not-an-address"}); err == nil {
		t.Fatalf("expected error for invalid address")
	}
}
