package notify

// Surface is a secondary screen an action can ask the user interface to open.
type Surface string

const (
	SurfaceNone                Surface = ""
	SurfaceSignIn              Surface = "sign-in"
	SurfaceContactRegistration Surface = "contact-registration"
)

// Presenter is where user-visible outcomes go.
type Presenter interface {
	Notify(message string)
	ShowSurface(s Surface)
}
