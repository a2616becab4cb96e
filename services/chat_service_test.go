package services

import (
	"strings"
	"testing"
	"time"

	"library-backend/models"
)

func TestChatRequestAssignsAvailableLibrarian(t *testing.T) {
	db := openTestDB(t)
	svc := NewChatService(db)
	student := seedStudent(t, db, "alex")
	librarian := seedLibrarian(t, db, "sarah")
	if err := db.Model(librarian).Update("chat_available", true).Error; err != nil {
		t.Fatalf("update librarian: %v", err)
	}

	session, err := svc.Request(student.ID)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if session.LibrarianID == nil || *session.LibrarianID != librarian.ID {
		t.Errorf("LibrarianID = %v, want %d", session.LibrarianID, librarian.ID)
	}
	if session.Status != models.ChatOngoing {
		t.Errorf("status = %s, want %s", session.Status, models.ChatOngoing)
	}
	if !strings.HasPrefix(session.RoomKey, "live-") {
		t.Errorf("room key %q missing live- prefix", session.RoomKey)
	}

	// One active session per student.
	_, err = svc.Request(student.ID)
	wantRejection(t, err, KindConflict)
}

func TestChatRequestQueuesWithoutLibrarian(t *testing.T) {
	db := openTestDB(t)
	svc := NewChatService(db)
	student := seedStudent(t, db, "alex")
	// This librarian is bookable but not on chat duty.
	seedLibrarian(t, db, "sarah")

	session, err := svc.Request(student.ID)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if session.LibrarianID != nil {
		t.Errorf("LibrarianID = %v, want nil (queued)", session.LibrarianID)
	}
}

func TestChatMessagesAndParticipants(t *testing.T) {
	db := openTestDB(t)
	svc := NewChatService(db)
	student := seedStudent(t, db, "alex")
	outsider := seedStudent(t, db, "eve")
	librarian := seedLibrarian(t, db, "sarah")
	if err := db.Model(librarian).Update("chat_available", true).Error; err != nil {
		t.Fatalf("update librarian: %v", err)
	}

	session, err := svc.Request(student.ID)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	_, err = svc.PostMessage(student, session.ID, "   ")
	wantRejection(t, err, KindInvalidInput)

	if _, err := svc.PostMessage(student, session.ID, "hello"); err != nil {
		t.Fatalf("student post: %v", err)
	}
	if _, err := svc.PostMessage(librarian, session.ID, "hi, how can I help?"); err != nil {
		t.Fatalf("librarian post: %v", err)
	}

	_, err = svc.PostMessage(outsider, session.ID, "let me in")
	wantRejection(t, err, KindForbidden)
	_, err = svc.Messages(outsider, session.ID)
	wantRejection(t, err, KindForbidden)

	messages, err := svc.Messages(student, session.ID)
	if err != nil {
		t.Fatalf("Messages: %v", err)
	}
	if len(messages) != 2 {
		t.Fatalf("messages = %d, want 2", len(messages))
	}
	if messages[0].Body != "hello" {
		t.Errorf("first message = %q, want oldest first", messages[0].Body)
	}

	if err := svc.End(student, session.ID); err != nil {
		t.Fatalf("End: %v", err)
	}
	wantRejection(t, svc.End(student, session.ID), KindConflict)
	_, err = svc.PostMessage(student, session.ID, "anyone there?")
	wantRejection(t, err, KindConflict)
}

func TestJoinQueuedSession(t *testing.T) {
	db := openTestDB(t)
	svc := NewChatService(db)
	student := seedStudent(t, db, "alex")
	outsider := seedStudent(t, db, "eve")
	sarah := seedLibrarian(t, db, "sarah")
	tom := seedLibrarian(t, db, "tom")

	// Nobody is on chat duty, so the request queues unassigned.
	session, err := svc.Request(student.ID)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if session.LibrarianID != nil {
		t.Fatalf("session should start queued, got librarian %v", session.LibrarianID)
	}

	_, err = svc.Join(outsider, session.ID)
	wantRejection(t, err, KindForbidden)

	joined, err := svc.Join(sarah, session.ID)
	if err != nil {
		t.Fatalf("Join: %v", err)
	}
	if joined.LibrarianID == nil || *joined.LibrarianID != sarah.ID {
		t.Fatalf("LibrarianID = %v, want %d", joined.LibrarianID, sarah.ID)
	}

	// Once claimed, the session leaves the queue and a second claim loses.
	_, err = svc.Join(tom, session.ID)
	wantRejection(t, err, KindConflict)

	staffView, err := svc.Status(sarah)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(staffView.QueuedSessions) != 0 {
		t.Errorf("queue = %+v, want empty after join", staffView.QueuedSessions)
	}
	if len(staffView.ActiveSessions) != 1 || staffView.ActiveSessions[0].ID != session.ID {
		t.Errorf("assigned sessions = %+v, want session %d", staffView.ActiveSessions, session.ID)
	}

	// The claiming librarian is now a participant.
	if _, err := svc.PostMessage(sarah, session.ID, "hello, picking this up"); err != nil {
		t.Fatalf("post after join: %v", err)
	}

	// Ended sessions cannot be joined.
	if err := svc.End(student, session.ID); err != nil {
		t.Fatalf("End: %v", err)
	}
	_, err = svc.Join(tom, session.ID)
	wantRejection(t, err, KindConflict)

	_, err = svc.Join(sarah, 999)
	wantRejection(t, err, KindNotFound)
}

func TestCloseExpired(t *testing.T) {
	db := openTestDB(t)
	svc := NewChatService(db)
	alice := seedStudent(t, db, "alice")
	bob := seedStudent(t, db, "bob")
	carol := seedStudent(t, db, "carol")
	librarian := seedLibrarian(t, db, "sarah")

	now := time.Now()
	idle := models.ChatSession{
		StudentID: alice.ID, LibrarianID: &librarian.ID, RoomKey: "live-idle",
		Status: models.ChatOngoing, StartedAt: now.Add(-10 * time.Minute),
		LastActivity: now.Add(-6 * time.Minute),
	}
	unanswered := models.ChatSession{
		StudentID: bob.ID, RoomKey: "live-unanswered",
		Status: models.ChatOngoing, StartedAt: now.Add(-40 * time.Minute),
		LastActivity: now.Add(-40 * time.Minute),
	}
	fresh := models.ChatSession{
		StudentID: carol.ID, LibrarianID: &librarian.ID, RoomKey: "live-fresh",
		Status: models.ChatOngoing, StartedAt: now.Add(-2 * time.Minute),
		LastActivity: now.Add(-1 * time.Minute),
	}
	for _, s := range []*models.ChatSession{&idle, &unanswered, &fresh} {
		if err := db.Create(s).Error; err != nil {
			t.Fatalf("seed session: %v", err)
		}
	}

	if err := svc.CloseExpired(now); err != nil {
		t.Fatalf("CloseExpired: %v", err)
	}

	check := func(id uint, want string) {
		t.Helper()
		var s models.ChatSession
		if err := db.First(&s, id).Error; err != nil {
			t.Fatalf("reload session %d: %v", id, err)
		}
		if s.Status != want {
			t.Errorf("session %d status = %s, want %s", id, s.Status, want)
		}
		if want != models.ChatOngoing && s.EndedAt == nil {
			t.Errorf("session %d EndedAt not set", id)
		}
	}
	check(idle.ID, models.ChatCompleted)
	check(unanswered.ID, models.ChatMissed)
	check(fresh.ID, models.ChatOngoing)
}

func TestChatStatusViews(t *testing.T) {
	db := openTestDB(t)
	svc := NewChatService(db)
	alice := seedStudent(t, db, "alice")
	bob := seedStudent(t, db, "bob")
	librarian := seedLibrarian(t, db, "sarah")
	if err := db.Model(librarian).Update("chat_available", true).Error; err != nil {
		t.Fatalf("update librarian: %v", err)
	}

	assigned, err := svc.Request(alice.ID)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}
	if err := db.Model(librarian).Update("chat_available", false).Error; err != nil {
		t.Fatalf("update librarian: %v", err)
	}
	queued, err := svc.Request(bob.ID)
	if err != nil {
		t.Fatalf("Request: %v", err)
	}

	status, err := svc.Status(alice)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.ActiveSession == nil || status.ActiveSession.ID != assigned.ID {
		t.Fatalf("student view = %+v, want active session %d", status, assigned.ID)
	}

	staffView, err := svc.Status(librarian)
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if len(staffView.ActiveSessions) != 1 || staffView.ActiveSessions[0].ID != assigned.ID {
		t.Errorf("assigned sessions = %+v, want session %d", staffView.ActiveSessions, assigned.ID)
	}
	if len(staffView.QueuedSessions) != 1 || staffView.QueuedSessions[0].ID != queued.ID {
		t.Errorf("queued sessions = %+v, want session %d", staffView.QueuedSessions, queued.ID)
	}
}
