package tools

import "fmt"

// The conversational layer pattern-matches on the status field and on these
// exact texts, so every template here is part of the wire contract. They are
// pure functions of the search key; nothing here is mutable process state.

type statusResponse struct {
	Status   string      `json:"status"`
	Response interface{} `json:"response"`
}

type ticketResponse struct {
	Status   string `json:"status"`
	Message  string `json:"message"`
	TicketID string `json:"ticket_id,omitempty"`
}

func successResponse(data interface{}) statusResponse {
	return statusResponse{Status: "success", Response: data}
}

func frequentFlyerNotFound(searchValue string) statusResponse {
	return statusResponse{
		Status: "error",
		Response: fmt.Sprintf(
			"Sorry we couldn't locate you in our records with frequentFlyerNumber %s. Could you please check your details again?",
			searchValue),
	}
}

func bookingReferenceNotFound(searchValue string) statusResponse {
	return statusResponse{
		Status: "error",
		Response: fmt.Sprintf(
			"Sorry we couldn't locate you in our records with Booking Reference# %s. Could you please check your details again?",
			searchValue),
	}
}

func mealBookingNotFound(searchValue string) statusResponse {
	return statusResponse{
		Status: "error",
		Response: fmt.Sprintf(
			"Sorry we couldn't locate you in our records with booking reference %s. Could you please check your details again?",
			searchValue),
	}
}

func mealCutoffViolation() statusResponse {
	return statusResponse{
		Status:   "error",
		Response: "Meal requests must be made at least 24 hours before departure. Please contact support.",
	}
}

func bookingSystemError() statusResponse {
	return statusResponse{
		Status:   "error",
		Response: "We are currently unable to retrieve your booking. Please try again later.",
	}
}

func ticketSystemError() ticketResponse {
	return ticketResponse{
		Status:  "error",
		Message: "We are currently unable to create a support ticket. Please try again later.",
	}
}

func ticketBookingNotFound() ticketResponse {
	return ticketResponse{
		Status:  "error",
		Message: "No booking found with provided booking reference",
	}
}

func ticketCreated(ticketID string) ticketResponse {
	return ticketResponse{
		Status:   "success",
		Message:  "Support ticket created successfully",
		TicketID: ticketID,
	}
}

func invalidRequest(message string) ticketResponse {
	return ticketResponse{
		Status:  "error",
		Message: message,
	}
}
