package mongodb

import (
	"reflect"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"

	"github.com/vedran77/vidtube/internal/database"
	"github.com/vedran77/vidtube/internal/domain"
)

func stageNames(p mongo.Pipeline) []string {
	names := make([]string, 0, len(p))
	for _, stage := range p {
		names = append(names, stage[0].Key)
	}
	return names
}

func stageValue(t *testing.T, p mongo.Pipeline, name string) any {
	t.Helper()
	for _, stage := range p {
		if stage[0].Key == name {
			return stage[0].Value
		}
	}
	t.Fatalf("pipeline has no %s stage: %v", name, stageNames(p))
	return nil
}

func lookupField(t *testing.T, lookup bson.D, key string) any {
	t.Helper()
	for _, e := range lookup {
		if e.Key == key {
			return e.Value
		}
	}
	t.Fatalf("lookup has no %s", key)
	return nil
}

func TestPublishedVideosPipelineShape(t *testing.T) {
	p := publishedVideosPipeline(domain.VideoQuery{Page: domain.Page{Number: 3, Limit: 20}})

	want := []string{"$match", "$lookup", "$addFields", "$sort", "$skip", "$limit"}
	if got := stageNames(p); !reflect.DeepEqual(got, want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}

	if skip := stageValue(t, p, "$skip"); skip != int64(40) {
		t.Errorf("$skip = %v, want 40", skip)
	}
	if limit := stageValue(t, p, "$limit"); limit != int64(20) {
		t.Errorf("$limit = %v, want 20", limit)
	}

	match := stageValue(t, p, "$match").(bson.D)
	if match[0].Key != "isPublished" || match[0].Value != true {
		t.Errorf("listing must filter on isPublished, got %v", match)
	}

	sort := stageValue(t, p, "$sort").(bson.D)
	wantSort := bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}
	if !reflect.DeepEqual(sort, wantSort) {
		t.Errorf("$sort = %v, want %v", sort, wantSort)
	}
}

func TestPublishedVideosPipelineFilters(t *testing.T) {
	owner := primitive.NewObjectID()
	p := publishedVideosPipeline(domain.VideoQuery{
		Page:      domain.Page{Number: 1, Limit: 10},
		Search:    "go (1.22)",
		SortBy:    "views",
		Ascending: true,
		OwnerID:   &owner,
	})

	match := stageValue(t, p, "$match").(bson.D)
	if len(match) != 3 {
		t.Fatalf("$match = %v, want published, owner and $or", match)
	}
	if match[1].Key != "owner" || match[1].Value != owner {
		t.Errorf("owner filter = %v", match[1])
	}

	or := match[2].Value.(bson.A)
	re := or[0].(bson.D)[0].Value.(primitive.Regex)
	if re.Pattern != `go \(1\.22\)` || re.Options != "i" {
		t.Errorf("regex = %+v, want escaped case-insensitive pattern", re)
	}

	sort := stageValue(t, p, "$sort").(bson.D)
	if sort[0].Key != "views" || sort[0].Value != 1 || sort[1].Value != 1 {
		t.Errorf("$sort = %v, want views asc with _id asc", sort)
	}
}

func TestPublishedVideosPipelineRejectsUnknownSort(t *testing.T) {
	p := publishedVideosPipeline(domain.VideoQuery{Page: domain.Page{Number: 1, Limit: 10}, SortBy: "password"})
	sort := stageValue(t, p, "$sort").(bson.D)
	if sort[0].Key != "createdAt" {
		t.Errorf("unknown sortBy should fall back to createdAt, got %v", sort)
	}
}

func TestUserSummaryLookupProjectsSafelist(t *testing.T) {
	stage := userSummaryLookup("owner").stage()
	spec := stage[0].Value.(bson.D)

	if from := lookupField(t, spec, "from"); from != database.UsersCollection {
		t.Errorf("from = %v", from)
	}
	sub := lookupField(t, spec, "pipeline").(mongo.Pipeline)
	project := sub[0][0].Value.(bson.D)

	allowed := map[string]bool{"fullname": true, "username": true, "avatar": true}
	if len(project) != len(allowed) {
		t.Fatalf("projection = %v, want exactly %v", project, allowed)
	}
	for _, f := range project {
		if !allowed[f.Key] {
			t.Errorf("projection leaks %q", f.Key)
		}
	}
}

func TestCollapseRemovesEmptyJoin(t *testing.T) {
	p := NewPipeline().Collapse("owner").Stages()
	fields := p[0][0].Value.(bson.D)
	ifNull := fields[0].Value.(bson.D)[0]
	if ifNull.Key != "$ifNull" {
		t.Fatalf("collapse should guard with $ifNull, got %v", ifNull)
	}
	if args := ifNull.Value.(bson.A); args[1] != "$$REMOVE" {
		t.Errorf("empty join should remove the field, got %v", args[1])
	}
}

func TestChannelProfilePipelineSinglePass(t *testing.T) {
	viewer := primitive.NewObjectID()
	p := channelProfilePipeline("SomeChannel", viewer)

	match := stageValue(t, p, "$match").(bson.D)
	if match[0].Value != "somechannel" {
		t.Errorf("username should be lowercased, got %v", match[0].Value)
	}

	want := []string{"$match", "$lookup", "$lookup", "$addFields", "$project"}
	if got := stageNames(p); !reflect.DeepEqual(got, want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}

	fields := stageValue(t, p, "$addFields").(bson.D)
	var isSubscribed bson.D
	for _, f := range fields {
		if f.Key == "isSubscribed" {
			isSubscribed = f.Value.(bson.D)
		}
	}
	if isSubscribed == nil || isSubscribed[0].Key != "$in" {
		t.Fatalf("isSubscribed = %v, want $in expression", isSubscribed)
	}
	args := isSubscribed[0].Value.(bson.A)
	if args[0] != viewer {
		t.Errorf("$in should test the viewer, got %v", args[0])
	}
}

func TestWatchHistoryUpdate(t *testing.T) {
	vid := primitive.NewObjectID()
	update := watchHistoryUpdate(vid)

	set := update[0][0]
	if set.Key != "$set" {
		t.Fatalf("update stage = %s, want $set", set.Key)
	}
	slice := set.Value.(bson.D)[0].Value.(bson.D)[0]
	if slice.Key != "$slice" {
		t.Fatalf("watchHistory expression = %s, want $slice", slice.Key)
	}
	args := slice.Value.(bson.A)
	if args[1] != domain.MaxWatchHistory {
		t.Errorf("history cap = %v, want %d", args[1], domain.MaxWatchHistory)
	}
	concat := args[0].(bson.D)[0].Value.(bson.A)
	if head := concat[0].(bson.A); head[0] != vid {
		t.Errorf("video should be prepended, got %v", head)
	}
}

func TestLikedVideosPipeline(t *testing.T) {
	user := primitive.NewObjectID()
	p := likedVideosPipeline(user, domain.Page{Number: 2, Limit: 5})

	want := []string{"$match", "$lookup", "$unwind", "$sort", "$skip", "$limit", "$project"}
	if got := stageNames(p); !reflect.DeepEqual(got, want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}

	match := stageValue(t, p, "$match").(bson.D)
	if match[1].Key != "target.kind" || match[1].Value != "video" {
		t.Errorf("liked videos must only match video likes, got %v", match)
	}
	if skip := stageValue(t, p, "$skip"); skip != int64(5) {
		t.Errorf("$skip = %v, want 5", skip)
	}
}

func TestSortKeepsExplicitID(t *testing.T) {
	p := NewPipeline().Sort(bson.D{{Key: "_id", Value: 1}}).Stages()
	sort := p[0][0].Value.(bson.D)
	if len(sort) != 1 {
		t.Errorf("$sort = %v, want no duplicate _id", sort)
	}
}

func TestChannelStatsPipelineCountsInOnePass(t *testing.T) {
	p := channelStatsPipeline(primitive.NewObjectID())

	want := []string{"$match", "$lookup", "$lookup", "$project"}
	if got := stageNames(p); !reflect.DeepEqual(got, want) {
		t.Fatalf("stages = %v, want %v", got, want)
	}

	project := stageValue(t, p, "$project").(bson.D)
	keys := map[string]bool{}
	for _, f := range project {
		keys[f.Key] = true
	}
	for _, k := range []string{"subscribers", "videosCount", "views", "likes", "channelInfo"} {
		if !keys[k] {
			t.Errorf("projection missing %s", k)
		}
	}
}
