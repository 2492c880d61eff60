package mongodb

import (
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vedran77/vidtube/internal/database"
	"github.com/vedran77/vidtube/internal/domain"
)

// Pipeline composes aggregation stages in the order
// match, lookup, collapse, sort, skip/limit, project.
type Pipeline struct {
	stages mongo.Pipeline
}

func NewPipeline() *Pipeline {
	return &Pipeline{}
}

// Lookup describes a $lookup stage. Pipeline runs against the joined
// collection and is typically used to project or filter the joined documents.
type Lookup struct {
	From         string
	LocalField   string
	ForeignField string
	As           string
	Pipeline     mongo.Pipeline
}

func (l Lookup) stage() bson.D {
	spec := bson.D{
		{Key: "from", Value: l.From},
		{Key: "localField", Value: l.LocalField},
		{Key: "foreignField", Value: l.ForeignField},
		{Key: "as", Value: l.As},
	}
	if len(l.Pipeline) > 0 {
		spec = append(spec, bson.E{Key: "pipeline", Value: l.Pipeline})
	}
	return bson.D{{Key: "$lookup", Value: spec}}
}

func (p *Pipeline) Match(filter bson.D) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: "$match", Value: filter}})
	return p
}

func (p *Pipeline) Lookup(l Lookup) *Pipeline {
	p.stages = append(p.stages, l.stage())
	return p
}

// LookupOne joins a one-to-one reference and collapses the joined array to
// its single element. The field is absent when nothing matched.
func (p *Pipeline) LookupOne(l Lookup) *Pipeline {
	return p.Lookup(l).Collapse(l.As)
}

func (p *Pipeline) Collapse(field string) *Pipeline {
	first := bson.D{{Key: "$arrayElemAt", Value: bson.A{"$" + field, 0}}}
	return p.AddFields(bson.D{{
		Key:   field,
		Value: bson.D{{Key: "$ifNull", Value: bson.A{first, "$$REMOVE"}}},
	}})
}

func (p *Pipeline) AddFields(fields bson.D) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: "$addFields", Value: fields}})
	return p
}

// Sort appends _id in the direction of the last key so pages never overlap
// when sort keys tie.
func (p *Pipeline) Sort(keys bson.D) *Pipeline {
	dir := -1
	hasID := false
	for _, k := range keys {
		if k.Key == "_id" {
			hasID = true
		}
		if v, ok := k.Value.(int); ok {
			dir = v
		}
	}
	if !hasID {
		keys = append(keys, bson.E{Key: "_id", Value: dir})
	}
	p.stages = append(p.stages, bson.D{{Key: "$sort", Value: keys}})
	return p
}

func (p *Pipeline) Paginate(page domain.Page) *Pipeline {
	p.stages = append(p.stages,
		bson.D{{Key: "$skip", Value: page.Offset()}},
		bson.D{{Key: "$limit", Value: page.Limit}},
	)
	return p
}

// Unwind drops documents whose path is empty or missing.
func (p *Pipeline) Unwind(path string) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: "$unwind", Value: "$" + path}})
	return p
}

func (p *Pipeline) Project(fields bson.D) *Pipeline {
	p.stages = append(p.stages, bson.D{{Key: "$project", Value: fields}})
	return p
}

func (p *Pipeline) Stages() mongo.Pipeline {
	return p.stages
}

// summaryProjection is the safelisted user shape embedded into other resources.
var summaryProjection = bson.D{
	{Key: "fullname", Value: 1},
	{Key: "username", Value: 1},
	{Key: "avatar", Value: 1},
}

// userSummaryLookup resolves a user reference held in field, in place.
func userSummaryLookup(field string) Lookup {
	return Lookup{
		From:         database.UsersCollection,
		LocalField:   field,
		ForeignField: "_id",
		As:           field,
		Pipeline:     mongo.Pipeline{{{Key: "$project", Value: summaryProjection}}},
	}
}

// likesLookup joins the likes of one kind that target the current document
// into the "likes" field, keeping only likedBy.
func likesLookup(kind domain.LikeKind) Lookup {
	return Lookup{
		From:         database.LikesCollection,
		LocalField:   "_id",
		ForeignField: "target.id",
		As:           "likes",
		Pipeline: mongo.Pipeline{
			{{Key: "$match", Value: bson.D{{Key: "target.kind", Value: string(kind)}}}},
			{{Key: "$project", Value: bson.D{{Key: "likedBy", Value: 1}}}},
		},
	}
}

// videosWithOwnerLookup joins video ids held in localField into as, each with
// its owner collapsed to a summary.
func videosWithOwnerLookup(localField, as string) Lookup {
	return Lookup{
		From:         database.VideosCollection,
		LocalField:   localField,
		ForeignField: "_id",
		As:           as,
		Pipeline:     NewPipeline().LookupOne(userSummaryLookup("owner")).Stages(),
	}
}

func sizeOf(field string) bson.D {
	return bson.D{{Key: "$size", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$" + field, bson.A{}}}}}}
}

func sumOf(field string) bson.D {
	return bson.D{{Key: "$sum", Value: "$" + field}}
}

// contains tests value for membership in an array field of the current
// document.
func contains(value any, arrayField string) bson.D {
	return bson.D{{Key: "$in", Value: bson.A{
		value,
		bson.D{{Key: "$ifNull", Value: bson.A{"$" + arrayField, bson.A{}}}},
	}}}
}

// orderedBy rebuilds docsField in the order of the ids in idsField. $lookup
// does not preserve the order of the local array, and ids without a matching
// document are dropped.
func orderedBy(idsField, docsField string) bson.D {
	pick := bson.D{{Key: "$arrayElemAt", Value: bson.A{
		bson.D{{Key: "$filter", Value: bson.D{
			{Key: "input", Value: "$" + docsField},
			{Key: "as", Value: "candidate"},
			{Key: "cond", Value: bson.D{{Key: "$eq", Value: bson.A{"$$candidate._id", "$$id"}}}},
		}}},
		0,
	}}}

	mapped := bson.D{{Key: "$map", Value: bson.D{
		{Key: "input", Value: bson.D{{Key: "$ifNull", Value: bson.A{"$" + idsField, bson.A{}}}}},
		{Key: "as", Value: "id"},
		{Key: "in", Value: pick},
	}}}

	return bson.D{{Key: "$filter", Value: bson.D{
		{Key: "input", Value: mapped},
		{Key: "as", Value: "doc"},
		{Key: "cond", Value: bson.D{{Key: "$eq", Value: bson.A{bson.D{{Key: "$type", Value: "$$doc"}}, "object"}}}},
	}}}
}
