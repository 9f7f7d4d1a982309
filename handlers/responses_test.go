// Copyright (c) 2026 The livepoll developers.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"livepoll/models"
	"livepoll/testutil"
)

func TestSubmitResponseHandler(t *testing.T) {
	svc, mem := testutil.NewTestService(t)
	handler := NewResponseHandler(svc)

	session := testutil.CreateTestSession(t, svc, "All Hands", "anon-host")
	poll := testutil.CreateTestPoll(t, svc, session.ID, "Lunch?", []string{"Pizza", "Sushi"}, "anon-host")
	testutil.LaunchTestPoll(t, svc, poll.ID, session.ID)

	tests := []struct {
		name           string
		pollID         string
		requestBody    interface{}
		expectedStatus int
	}{
		{
			name:   "valid response",
			pollID: poll.ID,
			requestBody: models.SubmitResponseRequest{
				SessionID:      session.ID,
				UserID:         "anon-guest",
				UserName:       "Guest",
				SelectedOption: "Pizza",
			},
			expectedStatus: http.StatusCreated,
		},
		{
			name:   "duplicate vote",
			pollID: poll.ID,
			requestBody: models.SubmitResponseRequest{
				SessionID:      session.ID,
				UserID:         "anon-guest",
				UserName:       "Guest",
				SelectedOption: "Sushi",
			},
			expectedStatus: http.StatusConflict,
		},
		{
			name:   "option not in poll",
			pollID: poll.ID,
			requestBody: models.SubmitResponseRequest{
				SessionID:      session.ID,
				UserID:         "anon-other",
				UserName:       "Other",
				SelectedOption: "Tacos",
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:   "unknown poll",
			pollID: "p-missing",
			requestBody: models.SubmitResponseRequest{
				SessionID:      session.ID,
				UserID:         "anon-other",
				UserName:       "Other",
				SelectedOption: "Pizza",
			},
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "invalid JSON",
			pollID:         poll.ID,
			requestBody:    "nope",
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req *http.Request
			if str, ok := tt.requestBody.(string); ok {
				req = rawRequest("POST", "/polls/"+tt.pollID+"/responses", str)
			} else {
				req = testutil.MakeRequest("POST", "/polls/"+tt.pollID+"/responses", tt.requestBody, nil)
			}
			req.SetPathValue("id", tt.pollID)
			w := httptest.NewRecorder()

			handler.SubmitResponse(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if tt.expectedStatus == http.StatusCreated {
				var resp models.Response
				testutil.AssertJSON(t, w, &resp)
				if resp.ID == "" {
					t.Error("Expected non-empty response id")
				}
			}
		})
	}

	// The accepted vote is the only one that moved a counter.
	stored := fetchPoll(t, mem, poll.ID)
	if stored.Responses["Pizza"] != 1 || stored.Responses["Sushi"] != 0 {
		t.Errorf("Expected counts Pizza=1 Sushi=0, got %v", stored.Responses)
	}
}

func TestSubmitResponseHandlerDuplicateMessage(t *testing.T) {
	svc, _ := testutil.NewTestService(t)
	handler := NewResponseHandler(svc)

	session := testutil.CreateTestSession(t, svc, "All Hands", "anon-host")
	poll := testutil.CreateTestPoll(t, svc, session.ID, "Lunch?", []string{"Pizza", "Sushi"}, "anon-host")

	submit := func() *httptest.ResponseRecorder {
		req := testutil.MakeRequest("POST", "/polls/"+poll.ID+"/responses", models.SubmitResponseRequest{
			SessionID:      session.ID,
			UserID:         "anon-guest",
			UserName:       "Guest",
			SelectedOption: "Pizza",
		}, nil)
		req.SetPathValue("id", poll.ID)
		w := httptest.NewRecorder()
		handler.SubmitResponse(w, req)
		return w
	}

	testutil.AssertStatus(t, submit(), http.StatusCreated)

	w := submit()
	testutil.AssertStatus(t, w, http.StatusConflict)

	var resp models.ErrorResponse
	testutil.AssertJSON(t, w, &resp)
	if resp.Message != "You have already responded to this poll" {
		t.Errorf("Expected duplicate-vote message, got %q", resp.Message)
	}
}
