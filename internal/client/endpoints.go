package client

import "os"

const (
	defaultBaseURL = "http://localhost:4000"
	defaultWsURL   = "ws://localhost:4000"

	usersEndpoint = "/users"
	postsEndpoint = "/posts"
	connectPath   = "/api/v1/connect"
)

// endpoints resolves every remote path once, from the env-provided base URLs,
// so nothing reads configuration ad hoc at request time.
type endpoints struct {
	registerUser   string // POST
	authenticate   string // POST
	verifyOtp      string // POST
	resendOtp      string // POST
	forgotPassword string // POST
	resetPassword  string // POST
	currentProfile string // GET
	userByID       string // GET, append /{id}
	updateUser     string // PUT
	followUser     string // POST
	uploads        string // POST multipart

	allPosts      string // GET
	myPosts       string // GET
	favPosts      string // GET
	createPost    string // POST
	likePost      string // POST
	postByID      string // DELETE, append /{id}
	commentSuffix string // POST, postByID + /{id} + commentSuffix

	subscribeTo string // websocket
}

func resolveEndpoints() endpoints {
	base := os.Getenv("MINGLE_API_URL")
	if base == "" {
		base = defaultBaseURL
	}
	ws := os.Getenv("MINGLE_WS_URL")
	if ws == "" {
		ws = defaultWsURL
	}
	return endpoints{
		registerUser:   base + usersEndpoint + "/",
		authenticate:   base + usersEndpoint + "/login",
		verifyOtp:      base + usersEndpoint + "/verify",
		resendOtp:      base + usersEndpoint + "/resend-otp",
		forgotPassword: base + usersEndpoint + "/forgot-password",
		resetPassword:  base + usersEndpoint + "/reset-password",
		currentProfile: base + usersEndpoint + "/profile",
		userByID:       base + usersEndpoint,
		updateUser:     base + usersEndpoint + "/",
		followUser:     base + usersEndpoint + "/follow",
		uploads:        base + usersEndpoint + "/uploads",

		allPosts:      base + postsEndpoint + "/all",
		myPosts:       base + postsEndpoint + "/my",
		favPosts:      base + postsEndpoint + "/fav",
		createPost:    base + postsEndpoint,
		likePost:      base + postsEndpoint + "/like",
		postByID:      base + postsEndpoint,
		commentSuffix: "/comment",

		subscribeTo: ws + connectPath,
	}
}
