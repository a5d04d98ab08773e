package mongodb

import (
	"context"
	"fmt"
)

// InsertMany writes pre-built documents as-is, keeping their ids. It is used
// by the seeder, which needs references between collections to line up.
func (d *DB) InsertMany(ctx context.Context, collection string, docs []interface{}) (int, error) {
	if len(docs) == 0 {
		return 0, nil
	}

	result, err := d.Collection(collection).InsertMany(ctx, docs)
	if err != nil {
		return 0, fmt.Errorf("failed to seed %s: %w", collection, err)
	}
	return len(result.InsertedIDs), nil
}
