package content

// Built-in defaults for every tracked (section, key) pair. The public page
// renders these verbatim until an operator saves an override.
const (
	DefaultHeroTitle    = "Crystal Clear Windows, Every Time"
	DefaultHeroSubtitle = "Professional window cleaning services for homes and businesses. Upload photos of your windows and get a free estimate!"

	DefaultContactPhone1 = "613-888-1762"
	DefaultContactPhone2 = "613-484-5595"
	DefaultContactEmail  = "spotlessclnrs@gmail.com"

	DefaultHoursWeekdays = "8AM-5PM"
	DefaultHoursSaturday = "Closed"
	DefaultHoursSunday   = "Closed"

	DefaultServiceArea = "Greater Kingston Area"

	DefaultAboutText = "We are a small local business that emphasizes quality over quantity. " +
		"This means we take pride in our work and truly care about our customers. " +
		"Creating a lasting relationship with our customers is of the utmost importance to us."
)

// Field names the admin editor tracks, grouped the way the dashboard
// presents them.
type Field struct {
	Section string `json:"section"`
	Key     string `json:"key"`
	Label   string `json:"label"`
	Default string `json:"default"`
}

func TrackedFields() []Field {
	return []Field{
		{Section: "hero", Key: "title", Label: "Main Headline", Default: DefaultHeroTitle},
		{Section: "hero", Key: "subtitle", Label: "Subtitle", Default: DefaultHeroSubtitle},
		{Section: "contact", Key: "phone1", Label: "Primary Phone", Default: DefaultContactPhone1},
		{Section: "contact", Key: "phone2", Label: "Secondary Phone", Default: DefaultContactPhone2},
		{Section: "contact", Key: "email", Label: "Email Address", Default: DefaultContactEmail},
		{Section: "hours", Key: "weekdays", Label: "Monday - Friday", Default: DefaultHoursWeekdays},
		{Section: "hours", Key: "saturday", Label: "Saturday", Default: DefaultHoursSaturday},
		{Section: "hours", Key: "sunday", Label: "Sunday", Default: DefaultHoursSunday},
		{Section: "contact", Key: "area", Label: "Service Area", Default: DefaultServiceArea},
		{Section: "about", Key: "text", Label: "About Us", Default: DefaultAboutText},
	}
}
