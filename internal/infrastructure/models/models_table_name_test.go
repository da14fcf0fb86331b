package models

import "testing"

func TestTableNames(t *testing.T) {
	if got := (User{}).TableName(); got != "users" {
		t.Fatalf("unexpected User table name: %s", got)
	}
	if got := (Session{}).TableName(); got != "sessions" {
		t.Fatalf("unexpected Session table name: %s", got)
	}
	if got := (Verification{}).TableName(); got != "verifications" {
		t.Fatalf("unexpected Verification table name: %s", got)
	}
	if got := (Wallet{}).TableName(); got != "wallets" {
		t.Fatalf("unexpected Wallet table name: %s", got)
	}
	if got := (Expense{}).TableName(); got != "expenses" {
		t.Fatalf("unexpected Expense table name: %s", got)
	}
	if got := (Income{}).TableName(); got != "incomes" {
		t.Fatalf("unexpected Income table name: %s", got)
	}
}
