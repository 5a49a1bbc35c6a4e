package seed_test

import (
	"context"
	"fmt"
	"testing"

	"gudang/internal/database"
	"gudang/internal/models"
	"gudang/internal/seed"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

func TestRunIsRepeatable(t *testing.T) {
	db, err := database.Open(database.Options{
		Driver: "sqlite",
		DSN:    fmt.Sprintf("file:%s?mode=memory&cache=shared&_foreign_keys=1", uuid.NewString()),
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = database.Close(db) })
	require.NoError(t, database.Migrate(db))

	ctx := context.Background()
	log := zap.NewNop().Sugar()

	first, err := seed.Run(ctx, db, log)
	require.NoError(t, err)
	assert.Len(t, first.Users, len(seed.DemoUsers))
	assert.Len(t, first.Suppliers, 3)
	require.Len(t, first.Inventories, 3)
	assert.Equal(t, "Product1", first.Inventories[0].Product.Name)
	assert.Equal(t, 18.99, first.Inventories[0].Product.Price)
	assert.Equal(t, 5, first.Inventories[0].Quantity)

	second, err := seed.Run(ctx, db, log)
	require.NoError(t, err)
	assert.Len(t, second.Users, len(seed.DemoUsers))
	assert.Empty(t, second.Inventories)

	var products int64
	require.NoError(t, db.Model(&models.Product{}).Count(&products).Error)
	assert.Equal(t, int64(3), products)

	var password models.Password
	require.NoError(t, db.Joins("JOIN users ON users.id = passwords.user_id").Where("users.username = ?", "haaziq").First(&password).Error)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(password.Hash), []byte("Password123")))
}
