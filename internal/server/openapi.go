package server

import (
	"encoding/json"
	"fmt"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

// roundPathParams declares the {roundID} path parameter for per-round
// operations; the reflector rejects operations whose placeholders are not
// bound to a request structure.
type roundPathParams struct {
	RoundID string `path:"roundID"`
}

func addOp(r *openapi3.Reflector, oc openapi.OperationContext) {
	if err := r.AddOperation(oc); err != nil {
		panic(fmt.Sprintf("openapi: registering %s %s: %v", oc.Method(), oc.PathPattern(), err))
	}
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "QuizBoard API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the QuizBoard trivia game.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	addOp(r, getHealthz)

	// POST /api/auth/signup
	postSignup, _ := r.NewOperationContext(http.MethodPost, "/api/auth/signup")
	postSignup.SetSummary("Sign up")
	postSignup.SetDescription("Creates an account and returns a session token.")
	postSignup.AddReqStructure(SignupRequest{})
	postSignup.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postSignup.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postSignup.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	addOp(r, postSignup)

	// POST /api/auth/login
	postLogin, _ := r.NewOperationContext(http.MethodPost, "/api/auth/login")
	postLogin.SetSummary("Log in")
	postLogin.SetDescription("Authenticate with email and password. Returns a session token.")
	postLogin.AddReqStructure(LoginRequest{})
	postLogin.AddRespStructure(AuthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postLogin.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	addOp(r, postLogin)

	// POST /api/auth/logout
	postLogout, _ := r.NewOperationContext(http.MethodPost, "/api/auth/logout")
	postLogout.SetSummary("Log out")
	postLogout.SetDescription("Destroys the current session. Requires Bearer token.")
	postLogout.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	postLogout.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	addOp(r, postLogout)

	// GET /api/auth/me
	getMe, _ := r.NewOperationContext(http.MethodGet, "/api/auth/me")
	getMe.SetSummary("Current user")
	getMe.SetDescription("Returns the currently authenticated user. Requires Bearer token.")
	getMe.AddRespStructure(MeResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMe.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	addOp(r, getMe)

	// GET /api/catalog/categories
	getCategories, _ := r.NewOperationContext(http.MethodGet, "/api/catalog/categories")
	getCategories.SetSummary("List categories")
	getCategories.SetDescription("Returns the question catalog's categories. Requires Bearer token.")
	getCategories.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	getCategories.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	addOp(r, getCategories)

	// GET /api/catalog/questions
	getQuestions, _ := r.NewOperationContext(http.MethodGet, "/api/catalog/questions")
	getQuestions.SetSummary("List questions")
	getQuestions.SetDescription("Returns catalog questions without correct answers. Filter with ?category=. Requires Bearer token.")
	getQuestions.AddRespStructure([]QuestionView{}, openapi.WithHTTPStatus(http.StatusOK))
	getQuestions.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getQuestions.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	addOp(r, getQuestions)

	// POST /api/rounds
	postRound, _ := r.NewOperationContext(http.MethodPost, "/api/rounds")
	postRound.SetSummary("Create round")
	postRound.SetDescription("Creates a round with categories and teams. Requires Bearer token.")
	postRound.AddReqStructure(CreateRoundRequest{})
	postRound.AddRespStructure(RoundResponse{}, openapi.WithHTTPStatus(http.StatusCreated))
	postRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	addOp(r, postRound)

	// GET /api/rounds
	listRounds, _ := r.NewOperationContext(http.MethodGet, "/api/rounds")
	listRounds.SetSummary("List rounds")
	listRounds.SetDescription("Returns the caller's rounds, newest first. Requires Bearer token.")
	listRounds.AddRespStructure([]RoundSummary{}, openapi.WithHTTPStatus(http.StatusOK))
	listRounds.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	addOp(r, listRounds)

	// GET /api/rounds/{roundID}
	getRound, _ := r.NewOperationContext(http.MethodGet, "/api/rounds/{roundID}")
	getRound.SetSummary("Get round")
	getRound.SetDescription("Returns the round with its current game state. Requires Bearer token.")
	getRound.AddReqStructure(roundPathParams{})
	getRound.AddRespStructure(RoundResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getRound.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	addOp(r, getRound)

	// GET /api/rounds/{roundID}/board
	getBoard, _ := r.NewOperationContext(http.MethodGet, "/api/rounds/{roundID}/board")
	getBoard.SetSummary("Get board")
	getBoard.SetDescription("Returns the category x points grid with availability and answered flags. Requires Bearer token.")
	getBoard.AddReqStructure(roundPathParams{})
	getBoard.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK))
	getBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	getBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	addOp(r, getBoard)

	// POST /api/rounds/{roundID}/answer
	postAnswer, _ := r.NewOperationContext(http.MethodPost, "/api/rounds/{roundID}/answer")
	postAnswer.SetSummary("Submit answer")
	postAnswer.SetDescription("Checks the current team's answer and applies the result to the game state. Requires Bearer token.")
	postAnswer.AddReqStructure(struct {
		roundPathParams
		AnswerRequest
	}{})
	postAnswer.AddRespStructure(AnswerResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postAnswer.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	addOp(r, postAnswer)

	// POST /api/rounds/{roundID}/end
	postEnd, _ := r.NewOperationContext(http.MethodPost, "/api/rounds/{roundID}/end")
	postEnd.SetSummary("End round")
	postEnd.SetDescription("Ends the round and returns the winner. Requires Bearer token.")
	postEnd.AddReqStructure(roundPathParams{})
	postEnd.AddRespStructure(EndRoundResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postEnd.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	postEnd.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	postEnd.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	addOp(r, postEnd)

	// GET /api/rounds/{roundID}/events
	getEvents, _ := r.NewOperationContext(http.MethodGet, "/api/rounds/{roundID}/events")
	getEvents.SetSummary("SSE event stream")
	getEvents.SetDescription("Server-Sent Events stream of game updates for a round. Pass token as query parameter.")
	getEvents.AddReqStructure(struct {
		roundPathParams
		Token string `query:"token"`
	}{})
	getEvents.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("text/event-stream"))
	addOp(r, getEvents)

	// GET /api/rounds/{roundID}/qr
	getQR, _ := r.NewOperationContext(http.MethodGet, "/api/rounds/{roundID}/qr")
	getQR.SetSummary("Round QR code")
	getQR.SetDescription("Returns a PNG QR code linking to the round. Requires Bearer token.")
	getQR.AddReqStructure(roundPathParams{})
	getQR.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusOK),
		openapi.WithContentType("image/png"))
	getQR.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusNotFound))
	addOp(r, getQR)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
