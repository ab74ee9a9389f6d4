// Package outbox forwards events written in a database transaction to the
// message broker, so a domain write and its event commit together.
package outbox

import (
	stdSQL "database/sql"
	"fmt"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill-sql/v2/pkg/sql"
	"github.com/ThreeDotsLabs/watermill/components/forwarder"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/jmoiron/sqlx"
)

const Topic = "events_to_forward"

// NewPublisherForDB returns a publisher writing to the outbox table inside tx.
func NewPublisherForDB(tx *stdSQL.Tx, logger watermill.LoggerAdapter) (message.Publisher, error) {
	sqlPublisher, err := sql.NewPublisher(
		tx,
		sql.PublisherConfig{
			SchemaAdapter:        sql.DefaultPostgreSQLSchema{},
			AutoInitializeSchema: true,
		},
		logger,
	)
	if err != nil {
		return nil, fmt.Errorf("could not create sql publisher: %w", err)
	}

	return forwarder.NewPublisher(sqlPublisher, forwarder.PublisherConfig{
		ForwarderTopic: Topic,
	}), nil
}

// NewForwarder drains the outbox table into the broker publisher. Run it next
// to the router; Running() unblocks once it consumes.
func NewForwarder(db *sqlx.DB, pub message.Publisher, logger watermill.LoggerAdapter) (*forwarder.Forwarder, error) {
	sub, err := sql.NewSubscriber(db, sql.SubscriberConfig{
		SchemaAdapter:    sql.DefaultPostgreSQLSchema{},
		OffsetsAdapter:   sql.DefaultPostgreSQLOffsetsAdapter{},
		InitializeSchema: true,
	}, logger)
	if err != nil {
		return nil, fmt.Errorf("could not create outbox subscriber: %w", err)
	}

	fwd, err := forwarder.NewForwarder(sub, pub, logger, forwarder.Config{
		ForwarderTopic: Topic,
	})
	if err != nil {
		return nil, fmt.Errorf("could not create forwarder: %w", err)
	}

	return fwd, nil
}
