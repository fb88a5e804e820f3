package db

import (
	"context"
	"fmt"
	"strings"

	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"

	"threadchat/internal/model"
)

// Driver names the storage backend selected by a connection string.
type Driver string

const (
	DriverMySQL  Driver = "mysql"
	DriverSQLite Driver = "sqlite"
	DriverMongo  Driver = "mongo"
)

const sqlitePrefix = "sqlite://"

// DriverFor picks the backend from the connection string scheme. Strings
// without a known scheme are treated as MySQL DSNs.
func DriverFor(url string) Driver {
	switch {
	case strings.HasPrefix(url, "mongodb://"), strings.HasPrefix(url, "mongodb+srv://"):
		return DriverMongo
	case strings.HasPrefix(url, sqlitePrefix):
		return DriverSQLite
	default:
		return DriverMySQL
	}
}

// Conn is an open store. Exactly one of Gorm or Mongo is set.
type Conn struct {
	Driver Driver
	Gorm   *gorm.DB
	Mongo  *mongo.Database
}

// Open connects to the store named by url, migrating the relational schema
// or ensuring document indexes.
func Open(ctx context.Context, url, mongoDatabase string) (*Conn, error) {
	driver := DriverFor(url)
	switch driver {
	case DriverMongo:
		database, err := NewMongo(ctx, url, mongoDatabase)
		if err != nil {
			return nil, err
		}
		return &Conn{Driver: driver, Mongo: database}, nil
	case DriverSQLite:
		gormDB, err := NewSQLite(strings.TrimPrefix(url, sqlitePrefix))
		if err != nil {
			return nil, err
		}
		return migrated(driver, gormDB)
	default:
		gormDB, err := NewMySQL(strings.TrimPrefix(url, "mysql://"))
		if err != nil {
			return nil, err
		}
		return migrated(driver, gormDB)
	}
}

func migrated(driver Driver, gormDB *gorm.DB) (*Conn, error) {
	if err := Migrate(gormDB); err != nil {
		return nil, err
	}
	return &Conn{Driver: driver, Gorm: gormDB}, nil
}

// Migrate creates or updates the relational schema.
func Migrate(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(&model.User{}, &model.Thread{}, &model.Message{}); err != nil {
		return fmt.Errorf("auto-migrate: %w", err)
	}
	return nil
}

// Close releases the underlying connections.
func (c *Conn) Close(ctx context.Context) error {
	if c.Mongo != nil {
		return c.Mongo.Client().Disconnect(ctx)
	}
	if c.Gorm != nil {
		sqlDB, err := c.Gorm.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return nil
}
