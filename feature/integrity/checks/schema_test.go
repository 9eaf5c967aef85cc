package checks

import (
	"testing"

	"shelter-sync/core/database"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

type widget struct {
	ID    uint   `gorm:"column:id;primaryKey;autoIncrement"`
	Code  string `gorm:"column:code;type:varchar(20);not null"`
	Label string `gorm:"column:label;type:varchar(100)"`
	Notes string
}

func (widget) TableName() string { return "widgets" }

func setupMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("Failed to open mock sql db: %v", err)
	}

	dialector := mysql.New(mysql.Config{
		Conn:                      db,
		SkipInitializeWithVersion: true,
	})

	gormDB, err := gorm.Open(dialector, &gorm.Config{})
	if err != nil {
		t.Fatalf("Failed to open gorm db: %v", err)
	}

	return gormDB, mock
}

func columns() *sqlmock.Rows {
	return sqlmock.NewRows([]string{"Field", "Type", "Null", "Key", "Default", "Extra"})
}

func TestCheckSchema_NilDB(t *testing.T) {
	report, err := CheckSchema(nil, widget{})
	assert.Error(t, err)
	assert.Nil(t, report)
}

func TestCheckSchema_Matched(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `widgets`").WillReturnRows(columns().
		AddRow("id", "int(10) unsigned", "NO", "PRI", nil, "auto_increment").
		AddRow("code", "varchar(20)", "NO", "", nil, "").
		AddRow("label", "varchar(100)", "YES", "", nil, ""))

	report, err := CheckSchema(db, widget{})
	require.NoError(t, err)
	assert.True(t, report.Matched)
	assert.Equal(t, "mysql", report.Driver)
	assert.Equal(t, "ok", report.Tables["widgets"].Status)
}

func TestCheckSchema_Mismatches(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `widgets`").WillReturnRows(columns().
		AddRow("id", "int(10) unsigned", "NO", "PRI", nil, "auto_increment").
		AddRow("code", "int(11)", "YES", "", nil, ""))

	report, err := CheckSchema(db, widget{})
	require.NoError(t, err)
	assert.False(t, report.Matched)

	tbl := report.Tables["widgets"]
	assert.Equal(t, "error", tbl.Status)
	assert.Equal(t, []string{"label"}, tbl.MissingColumns)
	assert.Equal(t, []string{"code: expected varchar(20), got int(11)"}, tbl.TypeMismatches)
	assert.Equal(t, []string{"code: expected NOT NULL"}, tbl.NullMismatches)
}

func TestCheckSchema_MissingTable(t *testing.T) {
	db, mock := setupMockDB(t)
	mock.ExpectQuery("SHOW COLUMNS FROM `widgets`").WillReturnRows(columns())

	report, err := CheckSchema(db, widget{})
	require.NoError(t, err)
	assert.False(t, report.Matched)
	assert.Contains(t, report.Errors[0], "does not exist")
}

func TestCheckSchema_SQLite(t *testing.T) {
	db, err := database.Connect(database.Config{Driver: "sqlite", Name: ":memory:"})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))

	report, err := CheckSchema(db, widget{})
	require.NoError(t, err)
	assert.True(t, report.Matched, "%+v", report)
}

func TestParseGormTag(t *testing.T) {
	assert.Equal(t, "id", parseGormTag("column:id;primaryKey", "column"))
	assert.Equal(t, "item_name", parseGormTag("primaryKey;column:item_name;type:varchar(100)", "column"))
	assert.Equal(t, "int(11)", parseGormTag("column:id;type:int(11)", "type"))
	assert.Equal(t, "", parseGormTag("column:id", "type"))
	assert.True(t, hasGormFlag("column:x;not null;default:Q", "not null"))
	assert.False(t, hasGormFlag("column:x", "not null"))
}
