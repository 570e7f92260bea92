package pgstore

import (
	"errors"
	"testing"

	"github.com/gagliardetto/solana-go"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestParsePoolInfo(t *testing.T) {
	id := solana.NewWallet().PublicKey()
	a := solana.NewWallet().PublicKey()
	b := solana.NewWallet().PublicKey()
	va := solana.NewWallet().PublicKey()
	vb := solana.NewWallet().PublicKey()

	info, err := parsePoolInfo(id.String(), a.String(), b.String(), va.String(), vb.String())
	if err != nil {
		t.Fatalf("parsePoolInfo() error = %v", err)
	}
	if !info.PoolID.Equals(id) || !info.TokenA.Equals(a) || !info.TokenB.Equals(b) {
		t.Errorf("parsePoolInfo() = %+v, mismatched fields", info)
	}
}

func TestParsePoolInfoRejectsInvalidAddress(t *testing.T) {
	if _, err := parsePoolInfo("not-base58!", "", "", "", ""); err == nil {
		t.Fatal("parsePoolInfo() should fail on an invalid pool id")
	}
}

func TestIsDuplicateKeyError(t *testing.T) {
	dup := &pgconn.PgError{Code: "23505"}
	if !isDuplicateKeyError(dup) {
		t.Error("isDuplicateKeyError() = false, want true for code 23505")
	}
	other := &pgconn.PgError{Code: "42601"}
	if isDuplicateKeyError(other) {
		t.Error("isDuplicateKeyError() = true, want false for an unrelated pg error")
	}
	if isDuplicateKeyError(errors.New("boom")) {
		t.Error("isDuplicateKeyError() = true, want false for a non-pg error")
	}
}
