package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Message is one direct message between two users. Messages are append-only;
// a conversation is reconstructed by querying both directions sorted by
// sentAt.
type Message struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id,omitempty"`
	MessageID string             `bson:"messageId" json:"messageId"`
	From      string             `bson:"from" json:"from"`
	To        string             `bson:"to" json:"to"`
	Body      string             `bson:"body" json:"body"`
	SentAt    time.Time          `bson:"sentAt" json:"sentAt"`
}
