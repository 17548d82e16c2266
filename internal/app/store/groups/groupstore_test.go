package groupstore_test

import (
	"testing"

	groupstore "github.com/bammbuu/bammbuu-server/internal/app/store/groups"
	"github.com/bammbuu/bammbuu-server/internal/domain/models"
	"github.com/bammbuu/bammbuu-server/internal/testutil"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

func TestStore_Create(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	group := models.Group{
		Name:     "Spanish Learners",
		Language: "Spanish",
		AdminID:  "admin-uid",
	}

	created, err := store.Create(ctx, group)
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}
	if created.ID == primitive.NilObjectID {
		t.Error("expected ID to be assigned")
	}
	if created.NameCI == "" {
		t.Error("expected NameCI to be set")
	}
	if created.Status != "active" {
		t.Errorf("expected status 'active', got %q", created.Status)
	}
	if len(created.MemberIDs) != 1 || created.MemberIDs[0] != "admin-uid" {
		t.Errorf("expected admin in member list, got %v", created.MemberIDs)
	}
}

func TestStore_Create_DuplicateName(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	_, err := db.Collection("groups").Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "name_ci", Value: 1}},
		Options: options.Index().SetUnique(true),
	})
	if err != nil {
		t.Fatalf("create unique index: %v", err)
	}

	if _, err := store.Create(ctx, models.Group{Name: "Duplicate Group"}); err != nil {
		t.Fatalf("first Create failed: %v", err)
	}
	if _, err := store.Create(ctx, models.Group{Name: "Duplicate Group"}); err != groupstore.ErrDuplicateGroupName {
		t.Errorf("expected ErrDuplicateGroupName, got %v", err)
	}
}

func TestStore_Membership(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	created, err := store.Create(ctx, models.Group{Name: "Spanish Learners", AdminID: "admin-uid"})
	if err != nil {
		t.Fatalf("Create failed: %v", err)
	}

	if err := store.AddMember(ctx, created.ID, "u1"); err != nil {
		t.Fatalf("AddMember failed: %v", err)
	}
	if err := store.AddMember(ctx, created.ID, "u1"); err != nil {
		t.Fatalf("second AddMember failed: %v", err)
	}

	got, err := store.GetByID(ctx, created.ID)
	if err != nil {
		t.Fatalf("GetByID failed: %v", err)
	}
	if len(got.MemberIDs) != 2 {
		t.Errorf("MemberIDs: got %v, want admin plus u1", got.MemberIDs)
	}

	groups, err := store.ListForUser(ctx, "u1")
	if err != nil {
		t.Fatalf("ListForUser failed: %v", err)
	}
	if len(groups) != 1 || groups[0].ID != created.ID {
		t.Errorf("ListForUser: got %v", groups)
	}

	if err := store.RemoveMember(ctx, created.ID, "u1"); err != nil {
		t.Fatalf("RemoveMember failed: %v", err)
	}
	groups, _ = store.ListForUser(ctx, "u1")
	if len(groups) != 0 {
		t.Errorf("ListForUser after remove: got %v, want none", groups)
	}
}

func TestStore_GetByID_NotFound(t *testing.T) {
	db := testutil.SetupTestDB(t)
	store := groupstore.New(db)
	ctx, cancel := testutil.TestContext()
	defer cancel()

	if _, err := store.GetByID(ctx, primitive.NewObjectID()); err != mongo.ErrNoDocuments {
		t.Errorf("expected mongo.ErrNoDocuments, got %v", err)
	}
}
