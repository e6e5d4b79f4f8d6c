package mongo

import (
	"regexp"
	"strings"

	"go.mongodb.org/mongo-driver/bson"

	"github.com/sbbdoc/board-api/internal/core/search"
)

// containsFold matches s anywhere in the field, ignoring case.
func containsFold(s string) bson.M {
	return bson.M{"$regex": regexp.QuoteMeta(strings.TrimSpace(s)), "$options": "i"}
}

// and collapses clauses into a single filter document.
func and(clauses []bson.M) bson.M {
	switch len(clauses) {
	case 0:
		return bson.M{}
	case 1:
		return clauses[0]
	default:
		return bson.M{"$and": clauses}
	}
}

// postFilter translates a listing query into a posts filter. authorIDs holds
// the ids whose nickname matched an author keyword; it is ignored otherwise.
func postFilter(q search.Query, authorIDs []int64) bson.M {
	var clauses []bson.M
	if q.ListedOnly {
		clauses = append(clauses, bson.M{"listed": true})
	}
	if q.AuthorID != nil {
		clauses = append(clauses, bson.M{"author_id": *q.AuthorID})
	}
	if q.HasKeyword() {
		switch q.KeywordType {
		case search.KeywordContent:
			clauses = append(clauses, bson.M{"content": containsFold(q.Keyword)})
		case search.KeywordAuthor:
			if authorIDs == nil {
				authorIDs = []int64{}
			}
			clauses = append(clauses, bson.M{"author_id": bson.M{"$in": authorIDs}})
		default:
			clauses = append(clauses, bson.M{"subject": containsFold(q.Keyword)})
		}
	}
	return and(clauses)
}

// commentFilter translates a listing query into a comments filter. Comments
// only carry content, so any keyword is matched against it.
func commentFilter(q search.Query) bson.M {
	var clauses []bson.M
	if q.PostID != nil {
		clauses = append(clauses, bson.M{"post_id": *q.PostID})
	}
	if q.HasKeyword() {
		clauses = append(clauses, bson.M{"content": containsFold(q.Keyword)})
	}
	return and(clauses)
}

// sortDoc maps sort keys to document fields. An empty key list falls back to
// newest first.
func sortDoc(keys []search.SortKey) bson.D {
	if len(keys) == 0 {
		keys = search.NewestFirst
	}
	doc := make(bson.D, 0, len(keys))
	for _, k := range keys {
		field := string(k.Field)
		if k.Field == search.FieldID {
			field = "_id"
		}
		dir := 1
		if k.Desc {
			dir = -1
		}
		doc = append(doc, bson.E{Key: field, Value: dir})
	}
	return doc
}
