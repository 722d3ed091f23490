// Package testdb opens throwaway in-memory SQLite databases mirroring the
// production schema. Tests create rows with explicit ids; SQLite has no
// gen_random_uuid().
package testdb

import (
	"fmt"
	"testing"

	"github.com/google/uuid"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

const schema = `
CREATE TABLE partners (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  name TEXT NOT NULL,
  email TEXT,
  phone TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE uoms (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  name TEXT NOT NULL,
  rounding NUMERIC NOT NULL DEFAULT 0.001,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE locations (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  name TEXT NOT NULL,
  complete_name TEXT NOT NULL,
  usage TEXT NOT NULL DEFAULT 'internal',
  parent_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE warehouses (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  name TEXT NOT NULL,
  code TEXT NOT NULL,
  stock_location_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE picking_types (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  warehouse_id TEXT NOT NULL,
  name TEXT NOT NULL,
  code TEXT NOT NULL,
  default_src_location_id TEXT,
  default_dest_location_id TEXT,
  sequence INTEGER NOT NULL DEFAULT 10,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE products (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  name TEXT NOT NULL,
  default_code TEXT,
  tracking TEXT NOT NULL DEFAULT 'none',
  uom_id TEXT NOT NULL,
  track_vendor_by_lot INTEGER NOT NULL DEFAULT 0,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE lots (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  name TEXT NOT NULL,
  product_id TEXT NOT NULL,
  vendor_id TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE quants (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  product_id TEXT NOT NULL,
  location_id TEXT NOT NULL,
  lot_id TEXT,
  quantity NUMERIC NOT NULL DEFAULT 0,
  reserved_quantity NUMERIC NOT NULL DEFAULT 0,
  in_date DATETIME,
  posx INTEGER,
  posy INTEGER,
  posz INTEGER NOT NULL DEFAULT 0,
  display_on_map INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE pickings (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  name TEXT NOT NULL,
  picking_type_id TEXT NOT NULL,
  src_location_id TEXT NOT NULL,
  dest_location_id TEXT NOT NULL,
  origin TEXT,
  state TEXT NOT NULL DEFAULT 'draft',
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE stock_moves (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  picking_id TEXT,
  product_id TEXT NOT NULL,
  description TEXT NOT NULL,
  quantity NUMERIC NOT NULL,
  uom_id TEXT NOT NULL,
  src_location_id TEXT NOT NULL,
  dest_location_id TEXT NOT NULL,
  state TEXT NOT NULL DEFAULT 'draft',
  purchase_line_id TEXT,
  origin_move_id TEXT,
  production_id TEXT,
  production_role TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE move_lines (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  move_id TEXT NOT NULL,
  picking_id TEXT,
  product_id TEXT NOT NULL,
  lot_id TEXT,
  quantity NUMERIC NOT NULL,
  uom_id TEXT NOT NULL,
  src_location_id TEXT NOT NULL,
  dest_location_id TEXT NOT NULL,
  state TEXT NOT NULL DEFAULT 'draft',
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE purchase_orders (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  name TEXT NOT NULL,
  partner_id TEXT NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE purchase_order_lines (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  order_id TEXT NOT NULL,
  product_id TEXT NOT NULL,
  quantity NUMERIC NOT NULL,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE productions (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  name TEXT NOT NULL,
  product_id TEXT NOT NULL,
  state TEXT NOT NULL DEFAULT 'draft',
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE warehouse_maps (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  name TEXT NOT NULL,
  warehouse_id TEXT NOT NULL,
  location_id TEXT NOT NULL,
  rows INTEGER NOT NULL DEFAULT 10,
  columns INTEGER NOT NULL DEFAULT 10,
  row_spacing_interval INTEGER NOT NULL DEFAULT 0,
  column_spacing_interval INTEGER NOT NULL DEFAULT 0,
  sequence INTEGER NOT NULL DEFAULT 10,
  active INTEGER NOT NULL DEFAULT 1,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE TABLE blocked_cells (
  id TEXT PRIMARY KEY DEFAULT (lower(hex(randomblob(4))||'-'||hex(randomblob(2))||'-4'||substr(hex(randomblob(2)),2)||'-'||substr('89ab',abs(random())%4+1,1)||substr(hex(randomblob(2)),2)||'-'||hex(randomblob(6)))),
  warehouse_map_id TEXT NOT NULL,
  posx INTEGER NOT NULL,
  posy INTEGER NOT NULL,
  posz INTEGER NOT NULL DEFAULT 0,
  block_type TEXT NOT NULL DEFAULT 'other',
  block_color TEXT NOT NULL DEFAULT '#9e9e9e',
  note TEXT,
  created_at DATETIME,
  updated_at DATETIME
);
CREATE UNIQUE INDEX uq_blocked_cell_position
  ON blocked_cells(warehouse_map_id, posx, posy, posz);
`

// Open returns a fresh in-memory database with the schema applied. Each call
// gets its own database so parallel tests never share state.
func Open(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	conn, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		t.Fatalf("open test db: %v", err)
	}
	if err := conn.Exec(schema).Error; err != nil {
		t.Fatalf("apply schema: %v", err)
	}
	return conn
}
