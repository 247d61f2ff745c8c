package constants

// AppInfo identifies an installed Android app by package and launcher activity.
type AppInfo struct {
	Package  string `json:"package" yaml:"package"`
	Activity string `json:"activity" yaml:"activity"`
}

// APP_PACKAGES_ANDROID maps the app names accepted by --app to their package/activity.
var APP_PACKAGES_ANDROID = map[string]AppInfo{
	"Settings":   {Package: "com.android.settings", Activity: ".Settings"},
	"Clock":      {Package: "com.google.android.deskclock", Activity: "com.android.deskclock.DeskClock"},
	"Calculator": {Package: "com.google.android.calculator", Activity: "com.android.calculator2.Calculator"},
	"Chrome":     {Package: "com.android.chrome", Activity: "com.google.android.apps.chrome.Main"},
	"Contacts":   {Package: "com.google.android.contacts", Activity: "com.android.contacts.activities.PeopleActivity"},
	"Files":      {Package: "com.google.android.apps.nbu.files", Activity: "com.google.android.apps.nbu.files.home.HomeActivity"},
	"Gmail":      {Package: "com.google.android.gm", Activity: "com.google.android.gm.ConversationListActivityGmail"},
	"Maps":       {Package: "com.google.android.apps.maps", Activity: "com.google.android.maps.MapsActivity"},
	"Messages":   {Package: "com.google.android.apps.messaging", Activity: "com.google.android.apps.messaging.ui.ConversationListActivity"},
	"Phone":      {Package: "com.google.android.dialer", Activity: "com.google.android.dialer.extensions.GoogleDialtactsActivity"},
	"Photos":     {Package: "com.google.android.apps.photos", Activity: "com.google.android.apps.photos.home.HomeActivity"},
	"Play Store": {Package: "com.android.vending", Activity: "com.google.android.finsky.activities.MainActivity"},
	"YouTube":    {Package: "com.google.android.youtube", Activity: "com.google.android.youtube.HomeActivity"},
}

// GetAppByName returns the app registered under name.
func GetAppByName(name string) (AppInfo, bool) {
	app, ok := APP_PACKAGES_ANDROID[name]
	return app, ok
}

// GetAppNameByPackage returns the registered name of a package, or "" when unknown.
func GetAppNameByPackage(pkg string) string {
	for name, app := range APP_PACKAGES_ANDROID {
		if app.Package == pkg {
			return name
		}
	}
	return ""
}
