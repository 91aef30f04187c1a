package tenantRepo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/larrybwosi/realstate-sub001/database"
	"github.com/larrybwosi/realstate-sub001/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
)

// TenantRepository exposes the tenant reads the payment engine needs.
type TenantRepository interface {
	// GetTenantByID retrieves a tenant by its unique ID, nil when unknown.
	GetTenantByID(ctx context.Context, tenantID string) (*models.Tenant, error)
}

// MongoTenantRepo implements TenantRepository using MongoDB.
type MongoTenantRepo struct {
	tenantColl *mongo.Collection
}

// NewMongoTenantRepo constructs a new instance of MongoTenantRepo.
func NewMongoTenantRepo() TenantRepository {
	db := database.MongoClient.Database("realstate")
	return &MongoTenantRepo{tenantColl: db.Collection("tenants")}
}

// GetTenantByID retrieves a tenant document by ID.
func (repo *MongoTenantRepo) GetTenantByID(ctx context.Context, tenantID string) (*models.Tenant, error) {
	ctx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	var tenant models.Tenant
	if err := repo.tenantColl.FindOne(ctx, bson.M{"id": tenantID}).Decode(&tenant); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, fmt.Errorf("error fetching tenant with id %s: %w", tenantID, err)
	}
	return &tenant, nil
}
