package repositories

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s_%d?mode=memory&cache=shared", t.Name(), time.Now().UnixNano())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err, "open sqlite")
	return db
}

func mustExec(t *testing.T, db *gorm.DB, q string, args ...interface{}) {
	t.Helper()
	require.NoError(t, db.Exec(q, args...).Error, "exec failed: query=%s", q)
}

func createUserTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE users (
		id TEXT PRIMARY KEY,
		name TEXT NOT NULL,
		email TEXT NOT NULL UNIQUE,
		email_verified BOOLEAN NOT NULL DEFAULT false,
		image TEXT,
		password_hash TEXT NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createSessionTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE sessions (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		token TEXT NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		ip_address TEXT,
		user_agent TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE verifications (
		id TEXT PRIMARY KEY,
		identifier TEXT NOT NULL,
		value TEXT NOT NULL UNIQUE,
		expires_at DATETIME NOT NULL,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createWalletTable(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE wallets (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		name TEXT NOT NULL,
		type TEXT NOT NULL,
		currency TEXT NOT NULL DEFAULT 'IDR',
		balance TEXT NOT NULL DEFAULT '0.00',
		description TEXT,
		color TEXT NOT NULL DEFAULT 'bg-gray-800',
		icon TEXT NOT NULL DEFAULT '💰',
		is_active BOOLEAN NOT NULL DEFAULT true,
		is_default BOOLEAN NOT NULL DEFAULT false,
		account_number TEXT,
		institution_name TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func createTransactionTables(t *testing.T, db *gorm.DB) {
	mustExec(t, db, `CREATE TABLE expenses (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		wallet_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT,
		notes TEXT,
		merchant TEXT,
		location TEXT,
		transaction_date DATETIME NOT NULL,
		is_recurring BOOLEAN NOT NULL DEFAULT false,
		recurring_pattern TEXT,
		tags TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
	mustExec(t, db, `CREATE TABLE incomes (
		id TEXT PRIMARY KEY,
		user_id TEXT NOT NULL,
		wallet_id TEXT NOT NULL,
		amount TEXT NOT NULL,
		category TEXT NOT NULL,
		description TEXT,
		notes TEXT,
		source TEXT,
		transaction_date DATETIME NOT NULL,
		is_recurring BOOLEAN NOT NULL DEFAULT false,
		recurring_pattern TEXT,
		is_taxable BOOLEAN NOT NULL DEFAULT false,
		tax_year TEXT,
		tags TEXT,
		created_at DATETIME,
		updated_at DATETIME
	);`)
}

func seedUser(t *testing.T, db *gorm.DB, id, email string) {
	now := time.Now()
	mustExec(t, db, `INSERT INTO users(id,name,email,email_verified,image,password_hash,created_at,updated_at)
	VALUES (?,?,?,?,?,?,?,?)`, id, "Test User", email, false, nil, "hash", now, now)
}

func seedWallet(t *testing.T, db *gorm.DB, id, userID, name string, isDefault, isActive bool, createdAt time.Time) {
	mustExec(t, db, `INSERT INTO wallets(id,user_id,name,type,currency,balance,description,color,icon,is_active,is_default,account_number,institution_name,created_at,updated_at)
	VALUES (?,?,?,?,?,?,?,?,?,?,?,?,?,?,?)`,
		id, userID, name, "checking", "IDR", "0.00", nil, "bg-gray-800", "💰", isActive, isDefault, nil, nil, createdAt, createdAt)
}
