// Package query composes a filtered, searched, sorted, paginated read query
// against a collection from untrusted request parameters. Stages apply in a
// fixed order — Search, then Filter, then Paginate — so the filter never
// re-applies search semantics and pagination never skips unfiltered rows.
package query

import (
	"context"
	"net/url"
	"regexp"
	"strconv"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Control parameters stripped before the filter stage. resPerPage is also
// reserved: the page size is fixed by the handler, never by the client.
var reserved = map[string]bool{
	"keyword":    true,
	"limit":      true,
	"page":       true,
	"resPerPage": true,
}

// Bracketed range operators, e.g. price[gte]=50, rewritten to the store's
// comparison syntax before execution.
var rangeKeyRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_]*)\[(gt|gte|lt|lte)\]$`)

type Features struct {
	params    url.Values
	filter    bson.M
	sort      bson.D
	limit     int64
	skip      int64
	paginated bool
}

func New(params url.Values) *Features {
	return &Features{params: params, filter: bson.M{}}
}

// Search restricts results to items whose name contains the keyword as a
// case-insensitive substring. An absent keyword is a no-op.
func (f *Features) Search() *Features {
	if keyword := f.params.Get("keyword"); keyword != "" {
		f.filter["name"] = bson.M{"$regex": regexp.QuoteMeta(keyword), "$options": "i"}
	}
	return f
}

// Filter turns every non-reserved parameter into an equality or range
// constraint and sorts by creation time descending.
func (f *Features) Filter() *Features {
	for key, vals := range f.params {
		if reserved[key] || len(vals) == 0 {
			continue
		}

		if m := rangeKeyRe.FindStringSubmatch(key); m != nil {
			field, op := m[1], "$"+m[2]
			cond, ok := f.filter[field].(bson.M)
			if !ok || cond["$regex"] != nil {
				cond = bson.M{}
			}
			cond[op] = coerce(vals[0])
			f.filter[field] = cond
			continue
		}

		f.filter[key] = coerce(vals[0])
	}

	f.sort = bson.D{{Key: "createdAt", Value: -1}}
	return f
}

// Paginate reads a 1-based page number from the parameters and applies the
// server-chosen page size. Non-numeric or missing page defaults to 1.
func (f *Features) Paginate(resPerPage int64) *Features {
	page, err := strconv.Atoi(f.params.Get("page"))
	if err != nil || page < 1 {
		page = 1
	}

	f.limit = resPerPage
	f.skip = resPerPage * int64(page-1)
	f.paginated = true
	return f
}

// FilterDoc exposes the composed filter document.
func (f *Features) FilterDoc() bson.M { return f.filter }

// Skip and Limit expose the pagination window.
func (f *Features) Skip() int64  { return f.skip }
func (f *Features) Limit() int64 { return f.limit }

// FindOptions builds the driver options for the composed query.
func (f *Features) FindOptions() *options.FindOptions {
	opts := options.Find()
	if f.sort != nil {
		opts.SetSort(f.sort)
	}
	if f.paginated {
		opts.SetLimit(f.limit).SetSkip(f.skip)
	}
	return opts
}

// Run executes the composed query: it returns the filtered-but-unpaginated
// count and decodes the paginated result set into out in the same call.
func (f *Features) Run(ctx context.Context, coll *mongo.Collection, out any) (int64, error) {
	filteredCount, err := coll.CountDocuments(ctx, f.filter)
	if err != nil {
		return 0, err
	}

	cur, err := coll.Find(ctx, f.filter, f.FindOptions())
	if err != nil {
		return 0, err
	}
	if err := cur.All(ctx, out); err != nil {
		return 0, err
	}
	return filteredCount, nil
}

// coerce maps a raw parameter value onto the type the store compares with:
// numbers for range and numeric equality constraints, booleans, else the
// string itself.
func coerce(val string) any {
	if n, err := strconv.ParseFloat(val, 64); err == nil {
		return n
	}
	if b, err := strconv.ParseBool(val); err == nil {
		return b
	}
	return val
}
