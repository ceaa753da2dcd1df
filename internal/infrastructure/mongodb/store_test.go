package mongodb

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/bson"

	"github.com/Sai-Karthik-Manam/ShopSmart-App/internal/infrastructure/docstore"
)

func TestToBSON(t *testing.T) {
	assert.Equal(t, bson.M{}, toBSON(nil))
	assert.Equal(t, bson.M{"user": "u-1", "quantity": 2}, toBSON(docstore.Filter{"user": "u-1", "quantity": 2}))
}

func TestToBSONCopies(t *testing.T) {
	f := docstore.Filter{"user": "u-1"}
	m := toBSON(f)
	m["user"] = "u-2"
	assert.Equal(t, "u-1", f["user"])
}
