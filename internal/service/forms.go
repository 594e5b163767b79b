package service

import "github.com/readingroom/bookclub/internal/issue"

// AddBookRequestFromIssue reads a "propose a book" issue form.
func AddBookRequestFromIssue(iss issue.Issue) AddBookRequest {
	return AddBookRequest{
		ISBN:       issue.ExtractField(iss.Body, "ISBN"),
		Title:      iss.Title,
		ReviewDate: issue.ExtractField(iss.Body, "review date"),
		Proposer:   issue.ExtractField(iss.Body, "proposer"),
		Guests:     issue.ExtractField(iss.Body, "guests"),
	}
}

// AddReviewRequestFromIssue reads a "review a book" issue form.
func AddReviewRequestFromIssue(iss issue.Issue) AddReviewRequest {
	return AddReviewRequest{
		BookID:   issue.ExtractField(iss.Body, "book id"),
		Reviewer: issue.ExtractField(iss.Body, "reviewer"),
		Grade:    issue.ExtractField(iss.Body, "grade"),
		Review:   issue.ExtractField(iss.Body, "review"),
	}
}
