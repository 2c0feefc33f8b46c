package testutil

import (
	"fmt"
	"os"
	"testing"
	"time"

	"smartparking/internal/identity"
	"smartparking/pkg/config"
)

const DefaultHealthCheckTimeout = 30 * time.Second

type TestEnv struct {
	MongoURI     string
	DatabaseName string
	ServerURL    string
	JWTSecret    string
	JWTIssuer    string
}

func NewTestEnv() *TestEnv {
	serverPort := getEnv("TEST_SERVER_PORT", "8080")
	return &TestEnv{
		MongoURI:     getEnv("TEST_MONGO_URI", config.DefaultMongoURI),
		DatabaseName: getEnv("TEST_DB_NAME", config.DefaultMongoDatabaseName),
		ServerURL:    getEnv("TEST_SERVER_URL", fmt.Sprintf("http://localhost:%s", serverPort)),
		JWTSecret:    getEnv("TEST_JWT_SECRET", "integration-secret"),
		JWTIssuer:    getEnv("TEST_JWT_ISSUER", config.DefaultJWTIssuer),
	}
}

// Setup wipes the database and waits for the service to answer /health.
func (e *TestEnv) Setup(t *testing.T) (*MongoHelper, *Client) {
	t.Helper()

	mongo := NewMongoHelper(t, e.MongoURI, e.DatabaseName)
	mongo.CleanDatabase(t)

	client := NewClient(e.ServerURL)
	client.WaitForHealthy(t, DefaultHealthCheckTimeout)

	return mongo, client
}

func (e *TestEnv) Cleanup(t *testing.T, mongo *MongoHelper) {
	t.Helper()

	if mongo != nil {
		mongo.CleanDatabase(t)
		mongo.Close(t)
	}
}

// Token signs a short-lived bearer token the service under test will accept.
func (e *TestEnv) Token(t *testing.T, userID string) string {
	t.Helper()
	token, err := identity.NewVerifier(e.JWTSecret, e.JWTIssuer).Issue(userID, time.Hour)
	if err != nil {
		t.Fatalf("failed to issue token: %v", err)
	}
	return token
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}
