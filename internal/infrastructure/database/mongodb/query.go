package mongodb

import (
	"context"
	"fmt"
	"sort"
	"time"

	"bootcamp-directory/pkg/query"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

var operators = map[query.Operator]string{
	query.OpEq:  "$eq",
	query.OpGt:  "$gt",
	query.OpGte: "$gte",
	query.OpLt:  "$lt",
	query.OpLte: "$lte",
	query.OpIn:  "$in",
}

// referenceFields hold ObjectIDs; their filter values arrive as hex strings.
var referenceFields = map[string]bool{
	"_id":      true,
	"bootcamp": true,
	"user":     true,
}

var timeFields = map[string]bool{
	"createdAt":           true,
	"resetPasswordExpire": true,
}

// hiddenFields never leave the store through a listing and cannot be
// filtered on.
type hiddenFields map[string]bool

func storeField(field string) string {
	if field == "id" {
		return "_id"
	}
	return field
}

// toFilter translates descriptor clauses into a conjunctive bson filter.
func toFilter(d *query.Descriptor, hidden hiddenFields) (bson.D, error) {
	conds := make([]bson.D, 0, len(d.Filters))
	for _, clause := range d.Filters {
		field := storeField(clause.Field)
		if hidden[field] {
			return nil, &query.ParseError{Param: clause.Field, Reason: "field cannot be filtered"}
		}

		value, err := storeValue(field, clause)
		if err != nil {
			return nil, err
		}
		conds = append(conds, bson.D{{Key: field, Value: bson.D{{Key: operators[clause.Op], Value: value}}}})
	}

	switch len(conds) {
	case 0:
		return bson.D{}, nil
	case 1:
		return conds[0], nil
	default:
		and := make(bson.A, len(conds))
		for i, c := range conds {
			and[i] = c
		}
		return bson.D{{Key: "$and", Value: and}}, nil
	}
}

func storeValue(field string, clause query.Clause) (interface{}, error) {
	if clause.Op == query.OpIn {
		items, _ := clause.Value.([]interface{})
		out := make(bson.A, len(items))
		for i, item := range items {
			v, err := convertScalar(field, clause.Field, item)
			if err != nil {
				return nil, err
			}
			out[i] = v
		}
		return out, nil
	}
	return convertScalar(field, clause.Field, clause.Value)
}

func convertScalar(field, param string, value interface{}) (interface{}, error) {
	switch {
	case referenceFields[field]:
		oid, err := primitive.ObjectIDFromHex(fmt.Sprint(value))
		if err != nil {
			return nil, &query.ParseError{Param: param, Reason: "not a valid id"}
		}
		return oid, nil
	case timeFields[field]:
		t, ok := toTime(value)
		if !ok {
			return nil, &query.ParseError{Param: param, Reason: "not a date"}
		}
		return t, nil
	}
	return value, nil
}

// toTime accepts RFC 3339 timestamps, dates, year-months and bare years. A
// bare year arrives as an integer because the translator coerces it.
func toTime(value interface{}) (time.Time, bool) {
	switch v := value.(type) {
	case int64:
		if v >= 1 && v <= 9999 {
			return time.Date(int(v), time.January, 1, 0, 0, 0, 0, time.UTC), true
		}
	case string:
		for _, layout := range []string{time.RFC3339, "2006-01-02", "2006-01"} {
			if t, err := time.Parse(layout, v); err == nil {
				return t, true
			}
		}
	}
	return time.Time{}, false
}

func toSort(keys []query.SortKey) bson.D {
	order := make(bson.D, 0, len(keys))
	for _, k := range keys {
		dir := 1
		if k.Descending {
			dir = -1
		}
		order = append(order, bson.E{Key: storeField(k.Field), Value: dir})
	}
	return order
}

// toProjection keeps the requested fields minus hidden ones. Without a
// request, or when every requested field is hidden, it excludes the hidden
// fields instead. A nil result means all fields.
func toProjection(fields []string, hidden hiddenFields) bson.D {
	var proj bson.D
	for _, f := range fields {
		f = storeField(f)
		if !hidden[f] {
			proj = append(proj, bson.E{Key: f, Value: 1})
		}
	}
	if len(proj) > 0 {
		return proj
	}

	excluded := make([]string, 0, len(hidden))
	for f := range hidden {
		excluded = append(excluded, f)
	}
	sort.Strings(excluded)
	for _, f := range excluded {
		proj = append(proj, bson.E{Key: f, Value: 0})
	}
	return proj
}

func findOptions(d *query.Descriptor, hidden hiddenFields) *options.FindOptions {
	opts := options.Find().
		SetSkip(int64(d.StartIndex())).
		SetLimit(int64(d.Limit)).
		SetSort(toSort(d.Sort))

	if proj := toProjection(d.Projection, hidden); len(proj) > 0 {
		opts.SetProjection(proj)
	}
	return opts
}

// list runs a descriptor against coll, returning one page decoded through
// toEntity and the number of documents matching the filters.
func list[M any, E any](
	ctx context.Context,
	coll *mongo.Collection,
	d *query.Descriptor,
	hidden hiddenFields,
	toEntity func(*M) *E,
) ([]*E, int64, error) {
	filter, err := toFilter(d, hidden)
	if err != nil {
		return nil, 0, err
	}

	total, err := coll.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to count %s: %w", coll.Name(), err)
	}

	cursor, err := coll.Find(ctx, filter, findOptions(d, hidden))
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list %s: %w", coll.Name(), err)
	}
	defer cursor.Close(ctx)

	var docs []M
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, 0, fmt.Errorf("failed to decode %s: %w", coll.Name(), err)
	}

	out := make([]*E, len(docs))
	for i := range docs {
		out[i] = toEntity(&docs[i])
	}
	return out, total, nil
}

// objectID parses a hex id. ok is false for malformed input, which callers
// report as not found.
func objectID(hex string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(hex)
	return oid, err == nil
}

func hexOrEmpty(oid primitive.ObjectID) string {
	if oid.IsZero() {
		return ""
	}
	return oid.Hex()
}
