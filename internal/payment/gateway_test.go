package payment

import (
	"context"
	"errors"
	"testing"
)

func TestChargeRequiresAllFields(t *testing.T) {
	g := NewGateway()
	full := Card{Number: "4111111111111111", Expiration: "12/30", CCV: "123", HolderName: "Alice"}

	if err := g.Charge(context.Background(), full, 150); err != nil {
		t.Fatalf("Charge: %v", err)
	}

	// 任何一项为空都必须拒绝
	cases := []Card{
		{Expiration: "12/30", CCV: "123", HolderName: "Alice"},
		{Number: "4111", CCV: "123", HolderName: "Alice"},
		{Number: "4111", Expiration: "12/30", HolderName: "Alice"},
		{Number: "4111", Expiration: "12/30", CCV: "123"},
		{Number: "  ", Expiration: "12/30", CCV: "123", HolderName: "Alice"},
	}
	for i, c := range cases {
		if err := g.Charge(context.Background(), c, 150); !errors.Is(err, ErrIncompleteDetails) {
			t.Fatalf("case %d: expected ErrIncompleteDetails, got %v", i, err)
		}
	}
}
