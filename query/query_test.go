package query

import (
	"net/url"
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
)

func TestSearchAbsentKeywordIsNoop(t *testing.T) {
	f := New(url.Values{}).Search()
	if len(f.FilterDoc()) != 0 {
		t.Fatalf("expected empty filter, got %v", f.FilterDoc())
	}
}

func TestSearchBuildsCaseInsensitiveSubstring(t *testing.T) {
	f := New(url.Values{"keyword": {"apple"}}).Search()

	want := bson.M{"name": bson.M{"$regex": "apple", "$options": "i"}}
	if !reflect.DeepEqual(f.FilterDoc(), want) {
		t.Fatalf("got %v, want %v", f.FilterDoc(), want)
	}
}

func TestSearchEscapesRegexMetacharacters(t *testing.T) {
	f := New(url.Values{"keyword": {"c++ (v2)"}}).Search()

	cond := f.FilterDoc()["name"].(bson.M)
	if cond["$regex"] != `c\+\+ \(v2\)` {
		t.Fatalf("keyword not escaped: %v", cond["$regex"])
	}
}

func TestFilterStripsControlParameters(t *testing.T) {
	params := url.Values{
		"keyword":    {"apple"},
		"limit":      {"50"},
		"page":       {"3"},
		"resPerPage": {"100"},
		"category":   {"Electronics"},
	}
	f := New(params).Filter()

	want := bson.M{"category": "Electronics"}
	if !reflect.DeepEqual(f.FilterDoc(), want) {
		t.Fatalf("got %v, want %v", f.FilterDoc(), want)
	}
}

func TestFilterRewritesRangeOperators(t *testing.T) {
	params := url.Values{
		"price[gt]":    {"100"},
		"ratings[gte]": {"4"},
	}
	f := New(params).Filter()

	want := bson.M{
		"price":   bson.M{"$gt": 100.0},
		"ratings": bson.M{"$gte": 4.0},
	}
	if !reflect.DeepEqual(f.FilterDoc(), want) {
		t.Fatalf("got %v, want %v", f.FilterDoc(), want)
	}
}

func TestFilterMergesRangeOperatorsOnOneField(t *testing.T) {
	params := url.Values{
		"price[gte]": {"50"},
		"price[lte]": {"200"},
	}
	f := New(params).Filter()

	cond, ok := f.FilterDoc()["price"].(bson.M)
	if !ok {
		t.Fatalf("price constraint missing: %v", f.FilterDoc())
	}
	if cond["$gte"] != 50.0 || cond["$lte"] != 200.0 {
		t.Fatalf("range operators not merged: %v", cond)
	}
}

func TestFilterCoercesValueTypes(t *testing.T) {
	params := url.Values{
		"stock":    {"12"},
		"featured": {"true"},
		"seller":   {"acme"},
	}
	f := New(params).Filter()

	doc := f.FilterDoc()
	if doc["stock"] != 12.0 {
		t.Errorf("stock: got %v (%T)", doc["stock"], doc["stock"])
	}
	if doc["featured"] != true {
		t.Errorf("featured: got %v (%T)", doc["featured"], doc["featured"])
	}
	if doc["seller"] != "acme" {
		t.Errorf("seller: got %v (%T)", doc["seller"], doc["seller"])
	}
}

func TestFilterSortsByNewestFirst(t *testing.T) {
	f := New(url.Values{}).Filter()

	want := bson.D{{Key: "createdAt", Value: -1}}
	if !reflect.DeepEqual(f.sort, want) {
		t.Fatalf("got %v, want %v", f.sort, want)
	}
}

func TestSearchThenFilterKeepsKeywordConstraint(t *testing.T) {
	params := url.Values{
		"keyword":  {"phone"},
		"category": {"Smartphones"},
	}
	f := New(params).Search().Filter()

	doc := f.FilterDoc()
	if _, ok := doc["name"].(bson.M); !ok {
		t.Errorf("search constraint lost: %v", doc)
	}
	if doc["category"] != "Smartphones" {
		t.Errorf("filter constraint lost: %v", doc)
	}
}

func TestPaginateSkipMath(t *testing.T) {
	tests := []struct {
		page string
		skip int64
	}{
		{"", 0},
		{"1", 0},
		{"2", 6},
		{"5", 24},
		{"0", 0},
		{"-3", 0},
		{"abc", 0},
	}
	for _, tt := range tests {
		f := New(url.Values{"page": {tt.page}}).Paginate(6)
		if f.Skip() != tt.skip {
			t.Errorf("page %q: skip = %d, want %d", tt.page, f.Skip(), tt.skip)
		}
		if f.Limit() != 6 {
			t.Errorf("page %q: limit = %d, want 6", tt.page, f.Limit())
		}
	}
}

func TestClientCannotOverridePageSize(t *testing.T) {
	params := url.Values{
		"limit":      {"1000"},
		"resPerPage": {"1000"},
		"page":       {"1"},
	}
	f := New(params).Search().Filter().Paginate(6)

	if f.Limit() != 6 {
		t.Fatalf("limit = %d, want 6", f.Limit())
	}
	if len(f.FilterDoc()) != 0 {
		t.Fatalf("control parameters leaked into filter: %v", f.FilterDoc())
	}
}

func TestFindOptionsOmitsWindowWithoutPaginate(t *testing.T) {
	opts := New(url.Values{}).Filter().FindOptions()
	if opts.Limit != nil || opts.Skip != nil {
		t.Fatalf("unpaginated query must not set a window: limit=%v skip=%v", opts.Limit, opts.Skip)
	}
	if opts.Sort == nil {
		t.Fatal("sort not applied")
	}
}
