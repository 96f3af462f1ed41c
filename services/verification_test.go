package services

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"questhero/config"
	"questhero/db"
	"questhero/models"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type fakeStore struct {
	mu sync.Mutex

	quest       *models.Quest
	profile     *models.Profile
	submissions []*models.Submission

	userQuestCompleted bool
	completeErr        error

	awardedXP        int
	completionsIncd  int
	progressLevel    int
	progressTitle    string
	progressBadges   []string
	progressUpdated  bool
}

func (f *fakeStore) FetchQuestByID(ctx context.Context, id string) (*models.Quest, error) {
	if f.quest == nil {
		return nil, db.ErrNotFound
	}
	return f.quest, nil
}

func (f *fakeStore) InsertSubmission(ctx context.Context, sub *models.Submission) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.submissions = append(f.submissions, sub)
	return nil
}

func (f *fakeStore) CompleteUserQuest(ctx context.Context, id string, xpEarned int, completedAt time.Time) (bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.completeErr != nil {
		return false, f.completeErr
	}
	if f.userQuestCompleted {
		return false, nil
	}
	f.userQuestCompleted = true
	return true, nil
}

func (f *fakeStore) AwardProfileXP(ctx context.Context, userID string, xp int, category string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.awardedXP += xp
	if f.profile == nil {
		return nil, db.ErrNotFound
	}
	f.profile.TotalXP += xp
	f.profile.QuestsCompleted++
	if f.profile.CategoryStats == nil {
		f.profile.CategoryStats = map[string]int{}
	}
	f.profile.CategoryStats[category]++
	snapshot := *f.profile
	return &snapshot, nil
}

func (f *fakeStore) UpdateProfileProgress(ctx context.Context, userID string, level int, title string, badges []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.progressLevel = level
	f.progressTitle = title
	f.progressBadges = badges
	f.progressUpdated = true
	return nil
}

func (f *fakeStore) IncrementQuestCompletions(ctx context.Context, questID string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.completionsIncd++
	return nil
}

func (f *fakeStore) FetchProfile(ctx context.Context, userID string) (*models.Profile, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.profile == nil {
		return nil, db.ErrNotFound
	}
	snapshot := *f.profile
	return &snapshot, nil
}

// stubClassifier returns canned results or an error.
type stubClassifier struct {
	results []LabelScore
	err     error
}

func (s stubClassifier) Classify(ctx context.Context, imageDataURI string, labels []string) ([]LabelScore, error) {
	return s.results, s.err
}

func newTestStore() *fakeStore {
	return &fakeStore{
		quest: &models.Quest{
			ID:        primitive.NewObjectID(),
			Title:     "Park cleanup",
			Category:  models.CategoryEnvironment,
			XPReward:  50,
			Latitude:  40.7484,
			Longitude: -73.9857,
		},
		profile: &models.Profile{
			ID:    primitive.NewObjectID(),
			Level: 1,
			Title: "Newcomer",
		},
	}
}

func testRequest(store *fakeStore) VerifyRequest {
	return VerifyRequest{
		QuestID:     store.quest.ID.Hex(),
		UserID:      store.profile.ID.Hex(),
		UserQuestID: primitive.NewObjectID().Hex(),
		ImageURL:    "https://example.com/proof.jpg",
		Latitude:    store.quest.Latitude,
		Longitude:   store.quest.Longitude,
	}
}

func TestVerifyNearbyWithPhotoIsAccepted(t *testing.T) {
	store := newTestStore()
	svc := NewVerificationService(config.DefaultVerification(), store, NoopClassifier{}, nil)

	req := testRequest(store)
	// ~50 m north of the quest.
	req.Latitude = store.quest.Latitude + 0.00045
	req.PhotoSize = 50000

	res, err := svc.Verify(context.Background(), req)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	if !res.LocationMatch {
		t.Error("Expected location match within 200m")
	}
	if !res.ObjectMatch {
		t.Error("Expected object match for a 50KB photo")
	}
	if res.Confidence < 60 {
		t.Errorf("Expected confidence >= 60, got %d", res.Confidence)
	}
	if !res.Verified {
		t.Error("Expected submission to be verified")
	}
	if res.XPAwarded != 50 {
		t.Errorf("Expected 50 XP awarded, got %d", res.XPAwarded)
	}
	if len(store.submissions) != 1 {
		t.Fatalf("Expected 1 stored submission, got %d", len(store.submissions))
	}
	if store.submissions[0].Status != models.SubmissionVerified {
		t.Errorf("Expected verified submission record, got %s", store.submissions[0].Status)
	}
	if store.submissions[0].VerifiedAt == nil {
		t.Error("Expected verifiedAt to be set on accepted submission")
	}
	if store.completionsIncd != 1 {
		t.Errorf("Expected quest completion counter increment, got %d", store.completionsIncd)
	}
	if !store.progressUpdated {
		t.Fatal("Expected derived profile progress to be persisted")
	}
	if store.progressLevel != 1 || store.progressTitle != "Newcomer" {
		t.Errorf("Expected level 1 Newcomer at 50 XP, got %d %q", store.progressLevel, store.progressTitle)
	}
	if len(store.progressBadges) == 0 || store.progressBadges[0] != "first_steps" {
		t.Errorf("Expected first_steps badge after first completion, got %v", store.progressBadges)
	}
}

func TestVerifyFeaturedQuestDoublesXP(t *testing.T) {
	store := newTestStore()
	store.quest.IsFeatured = true
	svc := NewVerificationService(config.DefaultVerification(), store, NoopClassifier{}, nil)

	req := testRequest(store)
	req.PhotoSize = 50000

	res, err := svc.Verify(context.Background(), req)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	if res.XPAwarded != 100 {
		t.Errorf("Expected doubled XP of 100 for featured quest, got %d", res.XPAwarded)
	}
}

func TestVerifyFarAwayIsRejectedRegardlessOfConfidence(t *testing.T) {
	store := newTestStore()
	svc := NewVerificationService(config.DefaultVerification(), store, NoopClassifier{}, nil)

	req := testRequest(store)
	// ~5 km away.
	req.Latitude = store.quest.Latitude + 0.045
	req.PhotoSize = 500000

	res, err := svc.Verify(context.Background(), req)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	if res.LocationMatch {
		t.Error("Expected location mismatch at 5km")
	}
	if res.Verified {
		t.Error("Location is a hard gate; submission must be rejected")
	}
	if res.XPAwarded != 0 {
		t.Errorf("Expected no XP on rejection, got %d", res.XPAwarded)
	}
	if store.awardedXP != 0 {
		t.Errorf("Expected no profile mutation on rejection, got %d XP", store.awardedXP)
	}
	if len(store.submissions) != 1 {
		t.Fatalf("Expected rejected submission to be stored, got %d records", len(store.submissions))
	}
	sub := store.submissions[0]
	if sub.Status != models.SubmissionRejected {
		t.Errorf("Expected rejected status, got %s", sub.Status)
	}
	if !strings.Contains(sub.RejectionReason, "Too far from quest location") {
		t.Errorf("Expected rejection reason to mention distance, got %q", sub.RejectionReason)
	}
}

func TestVerifyClassifierHardFailureFallsBack(t *testing.T) {
	store := newTestStore()
	svc := NewVerificationService(config.DefaultVerification(), store, stubClassifier{err: errors.New("boom")}, nil)

	req := testRequest(store)
	req.PhotoSize = 50000
	req.PhotoDataURI = "data:image/jpeg;base64,aGVsbG8="

	res, err := svc.Verify(context.Background(), req)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	if !res.Verified {
		t.Error("Expected fallback acceptance when location matches")
	}
	if res.Confidence != 60 {
		t.Errorf("Expected fixed fallback confidence 60, got %d", res.Confidence)
	}
	found := false
	for _, r := range res.Reasons {
		if strings.Contains(r, "AI verification unavailable") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected AI unavailable notice in reasons, got %v", res.Reasons)
	}
	if res.XPAwarded != 50 {
		t.Errorf("Expected award on fallback acceptance, got %d", res.XPAwarded)
	}
}

func TestVerifyClassifierHardFailureFarAwayIsRejected(t *testing.T) {
	store := newTestStore()
	svc := NewVerificationService(config.DefaultVerification(), store, stubClassifier{err: errors.New("boom")}, nil)

	req := testRequest(store)
	req.Latitude = store.quest.Latitude + 0.045
	req.PhotoDataURI = "data:image/jpeg;base64,aGVsbG8="

	res, err := svc.Verify(context.Background(), req)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	if res.Verified {
		t.Error("Expected rejection when classifier fails and location mismatches")
	}
	if res.Confidence != 0 {
		t.Errorf("Expected confidence 0, got %d", res.Confidence)
	}
}

func TestVerifyClassificationScoring(t *testing.T) {
	store := newTestStore()
	svc := NewVerificationService(config.DefaultVerification(), store, stubClassifier{
		results: []LabelScore{
			{Label: "trash bag", Score: 0.82},
			{Label: "park", Score: 0.41},
			{Label: "nature", Score: 0.33},
			{Label: "screenshot", Score: 0.12},
		},
	}, nil)

	req := testRequest(store)
	req.PhotoSize = 50000
	req.PhotoDataURI = "data:image/jpeg;base64,aGVsbG8="

	res, err := svc.Verify(context.Background(), req)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	// 40 location + 40 match + 15 high-confidence bonus + 10 base = 105,
	// clamped to 100.
	if res.Confidence != 100 {
		t.Errorf("Expected clamped confidence 100, got %d", res.Confidence)
	}
	if !res.ObjectMatch {
		t.Error("Expected object match from classification")
	}
	if !res.Verified {
		t.Error("Expected verification to pass")
	}
	if len(res.Labels) != 3 {
		t.Fatalf("Expected top 3 labels retained, got %v", res.Labels)
	}
	if res.Labels[0] != "trash bag" {
		t.Errorf("Expected matched label first, got %v", res.Labels)
	}
}

func TestVerifySuspiciousImagePenalized(t *testing.T) {
	store := newTestStore()
	svc := NewVerificationService(config.DefaultVerification(), store, stubClassifier{
		results: []LabelScore{
			{Label: "screenshot", Score: 0.91},
			{Label: "park", Score: 0.2},
		},
	}, nil)

	req := testRequest(store)
	req.PhotoSize = 50000
	req.PhotoDataURI = "data:image/jpeg;base64,aGVsbG8="

	res, err := svc.Verify(context.Background(), req)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	// 40 location - 30 suspicion + 10 base = 20.
	if res.Confidence != 20 {
		t.Errorf("Expected confidence 20 for suspicious image, got %d", res.Confidence)
	}
	if res.Verified {
		t.Error("Expected rejection for suspicious image")
	}
	found := false
	for _, r := range res.Reasons {
		if strings.Contains(r, "Suspicious image detected: screenshot") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected suspicion reason, got %v", res.Reasons)
	}
}

func TestVerifyAlreadyCompletedAcceptanceSkipsAward(t *testing.T) {
	store := newTestStore()
	store.userQuestCompleted = true
	svc := NewVerificationService(config.DefaultVerification(), store, NoopClassifier{}, nil)

	req := testRequest(store)
	req.PhotoSize = 50000

	res, err := svc.Verify(context.Background(), req)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	if !res.Verified {
		t.Error("Decision itself should still be verified")
	}
	if res.XPAwarded != 0 {
		t.Errorf("Expected no XP on duplicate submission, got %d", res.XPAwarded)
	}
	if store.awardedXP != 0 {
		t.Errorf("Expected no profile award on duplicate submission, got %d", store.awardedXP)
	}
}

func TestVerifyUnknownQuest(t *testing.T) {
	store := &fakeStore{}
	svc := NewVerificationService(config.DefaultVerification(), store, NoopClassifier{}, nil)

	_, err := svc.Verify(context.Background(), VerifyRequest{
		QuestID:     primitive.NewObjectID().Hex(),
		UserID:      primitive.NewObjectID().Hex(),
		UserQuestID: primitive.NewObjectID().Hex(),
	})
	if !errors.Is(err, db.ErrNotFound) {
		t.Errorf("Expected ErrNotFound for unknown quest, got %v", err)
	}
}

func TestVerifyLowQualityPhotoOnlyWeakSignal(t *testing.T) {
	store := newTestStore()
	svc := NewVerificationService(config.DefaultVerification(), store, NoopClassifier{}, nil)

	req := testRequest(store)
	req.PhotoSize = 2000

	res, err := svc.Verify(context.Background(), req)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	// 40 location + 15 low-quality + 10 base = 65: verified, but without
	// an object match.
	if res.ObjectMatch {
		t.Error("Small photo must not count as object match")
	}
	if res.Confidence != 65 {
		t.Errorf("Expected confidence 65, got %d", res.Confidence)
	}
}

func TestVerifyStreakBonusWhenEnabled(t *testing.T) {
	store := newTestStore()
	store.profile.CurrentStreak = 7

	cfg := config.DefaultVerification()
	cfg.ApplyStreakBonus = true
	svc := NewVerificationService(cfg, store, NoopClassifier{}, nil)

	req := testRequest(store)
	req.PhotoSize = 50000

	res, err := svc.Verify(context.Background(), req)
	if err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}
	// 50 base XP * 1.25 at a 7 day streak.
	if res.XPAwarded != 63 {
		t.Errorf("Expected 63 XP with streak bonus, got %d", res.XPAwarded)
	}
}

func TestVerifyBroadcastsProgressionEvents(t *testing.T) {
	store := newTestStore()
	svc := NewVerificationService(config.DefaultVerification(), store, NoopClassifier{}, nil)

	var mu sync.Mutex
	var events []models.GamificationEvent
	svc.broadcast = func(e models.GamificationEvent) {
		mu.Lock()
		defer mu.Unlock()
		events = append(events, e)
	}

	req := testRequest(store)
	req.PhotoSize = 50000

	if _, err := svc.Verify(context.Background(), req); err != nil {
		t.Fatalf("Verify returned error: %v", err)
	}

	mu.Lock()
	defer mu.Unlock()
	types := map[string]bool{}
	for _, e := range events {
		types[e.Type] = true
	}
	if !types["xp_awarded"] {
		t.Errorf("Expected xp_awarded event, got %v", events)
	}
	// First quest completion earns first_steps.
	if !types["badge_earned"] {
		t.Errorf("Expected badge_earned event, got %v", events)
	}
}
