package services

import (
	"context"

	"todo-lists/app/models"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"
	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Neo4jStore keeps lists and items as nodes joined by HAS_ITEM relationships.
// Identifiers are stored as ObjectID hex strings, which sort in creation
// order, so lists and items are returned ordered by id.
type Neo4jStore struct {
	driver   neo4j.DriverWithContext
	database string
}

// NewNeo4jStore creates a new instance of Neo4jStore.
func NewNeo4jStore(driver neo4j.DriverWithContext, database string) *Neo4jStore {
	return &Neo4jStore{driver: driver, database: database}
}

const (
	itemProjection = "i {.id, .text, .due_date, .finished_status}"

	findListQuery = "MATCH (l:List {id: $id}) " +
		"OPTIONAL MATCH (l)-[:HAS_ITEM]->(i:Item) " +
		"WITH l, i ORDER BY i.id " +
		"WITH l, collect(" + itemProjection + ") AS items " +
		"RETURN l.id AS id, l.title AS title, items"
)

func (s *Neo4jStore) session(ctx context.Context, mode neo4j.AccessMode) neo4j.SessionWithContext {
	return s.driver.NewSession(ctx, neo4j.SessionConfig{AccessMode: mode, DatabaseName: s.database})
}

// FindLists retrieves a page of lists from the database.
func (s *Neo4jStore) FindLists(ctx context.Context, offset, limit int64) ([]models.List, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	page := "SKIP $offset"
	if limit > 0 {
		page += " LIMIT $limit"
	}
	query := "MATCH (l:List) " +
		"WITH l ORDER BY l.id " + page + " " +
		"OPTIONAL MATCH (l)-[:HAS_ITEM]->(i:Item) " +
		"WITH l, i ORDER BY l.id, i.id " +
		"WITH l, collect(" + itemProjection + ") AS items " +
		"RETURN l.id AS id, l.title AS title, items ORDER BY id"

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, query, map[string]any{"offset": offset, "limit": limit})
		if err != nil {
			return nil, err
		}

		lists := []models.List{}
		for res.Next(ctx) {
			list, err := listFromRecord(res.Record())
			if err != nil {
				return nil, err
			}
			lists = append(lists, *list)
		}
		if err := res.Err(); err != nil {
			return nil, err
		}
		return lists, nil
	})
	if err != nil {
		return nil, errors.Wrap(err, "finding lists")
	}

	return result.([]models.List), nil
}

// CreateList adds a new list to the database.
func (s *Neo4jStore) CreateList(ctx context.Context, title string) (*models.List, error) {
	list := models.NewList(title)

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			"CREATE (l:List {id: $id, title: $title})",
			map[string]any{"id": list.ID.Hex(), "title": list.Title},
		)
		if err != nil {
			return nil, err
		}
		return readList(ctx, tx, list.ID)
	})
	if err != nil {
		return nil, errors.Wrap(err, "creating list")
	}

	return result.(*models.List), nil
}

// FindList retrieves a single list by its ID.
func (s *Neo4jStore) FindList(ctx context.Context, id primitive.ObjectID) (*models.List, error) {
	session := s.session(ctx, neo4j.AccessModeRead)
	defer session.Close(ctx)

	result, err := session.ExecuteRead(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		return readList(ctx, tx, id)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "finding list '%s'", id.Hex())
	}

	return result.(*models.List), nil
}

// UpdateListTitle sets the title of a list.
func (s *Neo4jStore) UpdateListTitle(ctx context.Context, id primitive.ObjectID, title string) (*models.List, error) {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		_, err := tx.Run(ctx,
			"MATCH (l:List {id: $id}) SET l.title = $title",
			map[string]any{"id": id.Hex(), "title": title},
		)
		if err != nil {
			return nil, err
		}
		return readList(ctx, tx, id)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "updating title of list '%s'", id.Hex())
	}

	return result.(*models.List), nil
}

// DeleteList deletes a list and the items it holds.
func (s *Neo4jStore) DeleteList(ctx context.Context, id primitive.ObjectID) (int64, error) {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		// Items first, they do not exist outside their list.
		_, err := tx.Run(ctx,
			"MATCH (:List {id: $id})-[:HAS_ITEM]->(i:Item) DETACH DELETE i",
			map[string]any{"id": id.Hex()},
		)
		if err != nil {
			return nil, err
		}

		res, err := tx.Run(ctx,
			"MATCH (l:List {id: $id}) DETACH DELETE l",
			map[string]any{"id": id.Hex()},
		)
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return int64(summary.Counters().NodesDeleted()), nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "deleting list '%s'", id.Hex())
	}

	return result.(int64), nil
}

// PushItem creates an item under an existing list.
func (s *Neo4jStore) PushItem(ctx context.Context, parentID primitive.ObjectID, item models.Item) (*models.List, error) {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (l:List {id: $parent_id}) "+
				"CREATE (l)-[:HAS_ITEM]->(:Item {id: $id, text: $text, due_date: $due_date, finished_status: $finished_status})",
			map[string]any{
				"parent_id":       parentID.Hex(),
				"id":              item.ID.Hex(),
				"text":            item.Text,
				"due_date":        dueDateParam(item.DueDate),
				"finished_status": item.FinishedStatus,
			},
		)
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		if summary.Counters().NodesCreated() == 0 {
			return (*models.List)(nil), nil
		}
		return readList(ctx, tx, parentID)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "pushing item onto list '%s'", parentID.Hex())
	}

	return result.(*models.List), nil
}

// UpdateItem sets the given properties of an item.
func (s *Neo4jStore) UpdateItem(ctx context.Context, itemID primitive.ObjectID, update models.ItemUpdate) (*models.List, error) {
	fields := map[string]any{}
	for key, value := range update.Fields() {
		if d, ok := value.(primitive.DateTime); ok {
			value = int64(d)
		}
		fields[key] = value
	}

	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (l:List)-[:HAS_ITEM]->(i:Item {id: $id}) "+
				"SET i += $fields "+
				"RETURN l.id AS parent_id",
			map[string]any{"id": itemID.Hex(), "fields": fields},
		)
		if err != nil {
			return nil, err
		}
		if !res.Next(ctx) {
			if err := res.Err(); err != nil {
				return nil, err
			}
			return (*models.List)(nil), nil
		}

		parentID, err := objectIDValue(res.Record(), "parent_id")
		if err != nil {
			return nil, err
		}
		return readList(ctx, tx, parentID)
	})
	if err != nil {
		return nil, errors.Wrapf(err, "updating item '%s'", itemID.Hex())
	}

	return result.(*models.List), nil
}

// PullItem deletes an item.
func (s *Neo4jStore) PullItem(ctx context.Context, itemID primitive.ObjectID) (int64, error) {
	session := s.session(ctx, neo4j.AccessModeWrite)
	defer session.Close(ctx)

	result, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx,
			"MATCH (:List)-[:HAS_ITEM]->(i:Item {id: $id}) DETACH DELETE i",
			map[string]any{"id": itemID.Hex()},
		)
		if err != nil {
			return nil, err
		}
		summary, err := res.Consume(ctx)
		if err != nil {
			return nil, err
		}
		return int64(summary.Counters().NodesDeleted()), nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "pulling item '%s'", itemID.Hex())
	}

	return result.(int64), nil
}

// Ping verifies the driver can reach the server.
func (s *Neo4jStore) Ping(ctx context.Context) error {
	return errors.Wrap(s.driver.VerifyConnectivity(ctx), "verifying neo4j connectivity")
}

// Close closes the driver.
func (s *Neo4jStore) Close(ctx context.Context) error {
	return errors.Wrap(s.driver.Close(ctx), "closing neo4j driver")
}

// readList returns the list with its items, or nil if there is none.
func readList(ctx context.Context, tx neo4j.ManagedTransaction, id primitive.ObjectID) (*models.List, error) {
	res, err := tx.Run(ctx, findListQuery, map[string]any{"id": id.Hex()})
	if err != nil {
		return nil, err
	}
	if res.Next(ctx) {
		return listFromRecord(res.Record())
	}
	if err := res.Err(); err != nil {
		return nil, err
	}
	return nil, nil
}

func listFromRecord(record *neo4j.Record) (*models.List, error) {
	id, err := objectIDValue(record, "id")
	if err != nil {
		return nil, err
	}
	title, _ := record.Get("title")
	rawItems, _ := record.Get("items")

	list := &models.List{ID: id, Items: []models.Item{}}
	if t, ok := title.(string); ok {
		list.Title = t
	}
	values, _ := rawItems.([]any)
	for _, v := range values {
		props, ok := v.(map[string]any)
		if !ok {
			return nil, errors.Errorf("unexpected item value %T", v)
		}
		item, err := itemFromProps(props)
		if err != nil {
			return nil, err
		}
		list.Items = append(list.Items, item)
	}
	return list, nil
}

func itemFromProps(props map[string]any) (models.Item, error) {
	hex, _ := props["id"].(string)
	id, err := models.ParseObjectID(hex)
	if err != nil {
		return models.Item{}, errors.Wrap(err, "reading item id")
	}

	item := models.Item{ID: id}
	item.Text, _ = props["text"].(string)
	item.FinishedStatus, _ = props["finished_status"].(bool)
	if millis, ok := props["due_date"].(int64); ok {
		d := primitive.DateTime(millis)
		item.DueDate = &d
	}
	return item, nil
}

func objectIDValue(record *neo4j.Record, key string) (primitive.ObjectID, error) {
	raw, ok := record.Get(key)
	if !ok {
		return primitive.NilObjectID, errors.Errorf("record has no '%s'", key)
	}
	hex, ok := raw.(string)
	if !ok {
		return primitive.NilObjectID, errors.Errorf("'%s' is a %T, not a string", key, raw)
	}
	return models.ParseObjectID(hex)
}

func dueDateParam(d *primitive.DateTime) any {
	if d == nil {
		return nil
	}
	return int64(*d)
}
