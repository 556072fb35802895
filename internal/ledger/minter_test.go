package ledger

import (
	"context"
	"testing"
	"time"
)

func TestValidAddress(t *testing.T) {
	cases := []struct {
		addr string
		want bool
	}{
		{"0x71C7656EC7ab88b098defB751B7401B5f6d8976F", true},
		{"0x0000000000000000000000000000000000000000", true},
		{"71C7656EC7ab88b098defB751B7401B5f6d8976F", true},
		{"not-an-address", false},
		{"0x1234", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := ValidAddress(tc.addr); got != tc.want {
			t.Errorf("ValidAddress(%q) = %v, want %v", tc.addr, got, tc.want)
		}
	}
}

func TestNewMinterRequiresEndpoints(t *testing.T) {
	_, err := NewMinter(context.Background(), Options{
		PrivateKeyHex:   "4c0883a69102937d6231471b5dbb6204fe512961708279f8d2ae0d28b6c8f30d",
		ContractAddress: "0x71C7656EC7ab88b098defB751B7401B5f6d8976F",
	})
	if err == nil {
		t.Fatal("expected error without rpc urls")
	}
}

func TestNewMinterRejectsBadContractAddress(t *testing.T) {
	_, err := NewMinter(context.Background(), Options{
		RPCURLs:         []string{"http://localhost:1"},
		PrivateKeyHex:   "4c0883a69102937d6231471b5dbb6204fe512961708279f8d2ae0d28b6c8f30d",
		ContractAddress: "not-a-contract",
		WaitTimeout:     time.Second,
	})
	if err == nil {
		t.Fatal("expected error for malformed contract address")
	}
}

func TestConnectedNilMinter(t *testing.T) {
	var m *Minter
	if m.Connected(context.Background()) {
		t.Fatal("nil minter must report disconnected")
	}
}
