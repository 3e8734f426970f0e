// Package test provides testing utilities for the payment backend, including
// the MongoDB test container.
package test

import (
	"context"
	"fmt"
	"math/rand"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/mongodb"
)

// MongoImage is the image used by the MongoDB test container.
const MongoImage = "mongo:7"

// StartMongoContainer starts a standalone MongoDB container for testing
// purposes. The caller must terminate it.
func StartMongoContainer(ctx context.Context) (*mongodb.MongoDBContainer, error) {
	return mongodb.RunContainer(ctx, testcontainers.WithImage(MongoImage))
}

// RandomDatabaseName returns a database name that does not collide with the
// ones used by other test packages sharing the same server.
func RandomDatabaseName() string {
	return fmt.Sprintf("db%x", rand.Uint64())
}
