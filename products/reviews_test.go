package products

import (
	"math"
	"testing"

	"smartkop/models"
)

func review(id, userID string, rating float64) models.Review {
	return models.Review{ReviewID: id, UserID: userID, Name: "u-" + userID, Rating: rating}
}

func TestUpsertReviewAppendsNewReviewer(t *testing.T) {
	reviews := []models.Review{review("r1", "u1", 4)}
	reviews = UpsertReview(reviews, review("r2", "u2", 2))

	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
}

func TestUpsertReviewOverwritesSameReviewerInPlace(t *testing.T) {
	reviews := []models.Review{
		review("r1", "u1", 4),
		review("r2", "u2", 2),
	}
	reviews = UpsertReview(reviews, models.Review{ReviewID: "r3", UserID: "u1", Rating: 5, Comment: "changed my mind"})

	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews after overwrite, got %d", len(reviews))
	}
	if reviews[0].UserID != "u1" || reviews[0].Rating != 5 || reviews[0].Comment != "changed my mind" {
		t.Fatalf("review not overwritten in place: %+v", reviews[0])
	}
}

func TestUpsertReviewIsIdempotent(t *testing.T) {
	r := review("r1", "u1", 3)
	reviews := UpsertReview(nil, r)
	reviews = UpsertReview(reviews, r)
	reviews = UpsertReview(reviews, r)

	if len(reviews) != 1 {
		t.Fatalf("repeated upsert by same reviewer grew the list: %d", len(reviews))
	}
}

func TestRemoveReview(t *testing.T) {
	reviews := []models.Review{
		review("r1", "u1", 4),
		review("r2", "u2", 2),
		review("r3", "u3", 5),
	}
	reviews = RemoveReview(reviews, "r2")

	if len(reviews) != 2 {
		t.Fatalf("expected 2 reviews, got %d", len(reviews))
	}
	for _, r := range reviews {
		if r.ReviewID == "r2" {
			t.Fatal("removed review still present")
		}
	}
}

func TestRemoveReviewUnknownIDIsNoop(t *testing.T) {
	reviews := []models.Review{review("r1", "u1", 4)}
	if got := RemoveReview(reviews, "nope"); len(got) != 1 {
		t.Fatalf("expected 1 review, got %d", len(got))
	}
}

func TestMeanRating(t *testing.T) {
	reviews := []models.Review{
		review("r1", "u1", 4),
		review("r2", "u2", 2),
		review("r3", "u3", 5),
	}
	got := MeanRating(reviews)
	want := 11.0 / 3.0
	if math.Abs(got-want) > 1e-9 {
		t.Fatalf("mean = %v, want %v", got, want)
	}
}

func TestMeanRatingEmptyIsZero(t *testing.T) {
	if got := MeanRating(nil); got != 0 {
		t.Fatalf("mean of no reviews = %v, want 0", got)
	}
}

func TestMeanRatingRecomputedAfterRemoval(t *testing.T) {
	reviews := []models.Review{
		review("r1", "u1", 5),
		review("r2", "u2", 1),
	}
	reviews = RemoveReview(reviews, "r2")

	if got := MeanRating(reviews); got != 5 {
		t.Fatalf("mean after removal = %v, want 5", got)
	}
}
