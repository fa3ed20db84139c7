package testutil

import (
	"database/sql"
	"fmt"
	"testing"

	_ "github.com/go-sql-driver/mysql"
)

// SetupTestDB opens the local test database and skips the test when it is
// not reachable, so the DB-backed suites stay optional.
func SetupTestDB(t *testing.T) *sql.DB {
	dsn := "root:@tcp(localhost:3306)/chinaone_test?parseTime=true"
	db, err := sql.Open("mysql", dsn)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}

	if err := db.Ping(); err != nil {
		t.Skipf("test database not available: %v", err)
	}

	return db
}

func CleanupTestDB(t *testing.T, db *sql.DB) {
	if db == nil {
		return
	}

	tables := []string{"order_items", "orders", "menu_items", "menu_categories", "customers", "admin_users"}
	for _, table := range tables {
		if _, err := db.Exec(fmt.Sprintf("DELETE FROM %s", table)); err != nil {
			t.Logf("failed to clean table %s: %v", table, err)
		}
	}

	db.Close()
}

// SetupTestTables creates the schema the repositories expect.
func SetupTestTables(t *testing.T, db *sql.DB) {
	createMenuCategories := `
	CREATE TABLE IF NOT EXISTS menu_categories (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		name VARCHAR(100) NOT NULL,
		description VARCHAR(255) NOT NULL DEFAULT '',
		icon VARCHAR(16) NOT NULL DEFAULT '',
		sortOrder INT NOT NULL DEFAULT 0
	)`

	createMenuItems := `
	CREATE TABLE IF NOT EXISTS menu_items (
		id VARCHAR(64) NOT NULL PRIMARY KEY,
		categoryId VARCHAR(64) NOT NULL,
		name VARCHAR(150) NOT NULL,
		description TEXT,
		basePrice DECIMAL(10,2) NOT NULL,
		popular TINYINT(1) NOT NULL DEFAULT 0,
		spicy TINYINT(1) NOT NULL DEFAULT 0,
		available TINYINT(1) NOT NULL DEFAULT 1,
		optionGroups JSON,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_category (categoryId)
	)`

	createCustomers := `
	CREATE TABLE IF NOT EXISTS customers (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		firstName VARCHAR(100) NOT NULL,
		lastName VARCHAR(100) NOT NULL,
		email VARCHAR(150) NOT NULL UNIQUE,
		phone VARCHAR(30),
		address VARCHAR(255),
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	createAdminUsers := `
	CREATE TABLE IF NOT EXISTS admin_users (
		id VARCHAR(36) NOT NULL PRIMARY KEY,
		email VARCHAR(150) NOT NULL UNIQUE,
		fullName VARCHAR(150) NOT NULL DEFAULT '',
		role VARCHAR(20) NOT NULL DEFAULT 'staff',
		isActive TINYINT(1) NOT NULL DEFAULT 1,
		lastLoginAt DATETIME NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP
	)`

	createOrders := `
	CREATE TABLE IF NOT EXISTS orders (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		customerId VARCHAR(36) NOT NULL,
		customerName VARCHAR(200) NOT NULL,
		customerPhone VARCHAR(30) NOT NULL,
		customerEmail VARCHAR(150) NOT NULL,
		orderType VARCHAR(10) NOT NULL,
		paymentMethod VARCHAR(10) NOT NULL,
		status VARCHAR(20) NOT NULL DEFAULT 'pending',
		subtotal DECIMAL(10,2) NOT NULL,
		tax DECIMAL(10,2) NOT NULL,
		deliveryFee DECIMAL(10,2) NOT NULL,
		total DECIMAL(10,2) NOT NULL,
		specialInstructions TEXT,
		estimatedReadyAt DATETIME NOT NULL,
		completedAt DATETIME NULL,
		createdAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP,
		updatedAt DATETIME NOT NULL DEFAULT CURRENT_TIMESTAMP ON UPDATE CURRENT_TIMESTAMP,
		INDEX idx_customer (customerId),
		INDEX idx_status (status)
	)`

	createOrderItems := `
	CREATE TABLE IF NOT EXISTS order_items (
		id INT UNSIGNED NOT NULL AUTO_INCREMENT PRIMARY KEY,
		orderId INT UNSIGNED NOT NULL,
		menuItemId VARCHAR(64) NOT NULL,
		name VARCHAR(150) NOT NULL,
		quantity INT NOT NULL DEFAULT 1,
		basePrice DECIMAL(10,2) NOT NULL,
		finalPrice DECIMAL(10,2) NOT NULL,
		customizations JSON,
		specialInstructions TEXT,
		FOREIGN KEY (orderId) REFERENCES orders(id) ON DELETE CASCADE,
		INDEX idx_order (orderId)
	)`

	tables := []struct {
		name  string
		query string
	}{
		{"menu_categories", createMenuCategories},
		{"menu_items", createMenuItems},
		{"customers", createCustomers},
		{"admin_users", createAdminUsers},
		{"orders", createOrders},
		{"order_items", createOrderItems},
	}

	for _, tbl := range tables {
		if _, err := db.Exec(tbl.query); err != nil {
			t.Logf("failed to create table %s: %v", tbl.name, err)
		}
	}
}
