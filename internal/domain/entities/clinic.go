package entities

// Clinic represents a dental clinic in the directory.
//
// A listing-level record omits Reviews; the detail-level record fetched for
// a single clinic includes them.
type Clinic struct {
	ID          int               `json:"id"`
	Name        string            `json:"name"`
	Image       string            `json:"image"`
	Address     string            `json:"address"`
	Phone       string            `json:"phone"`
	Email       string            `json:"email"`
	Website     string            `json:"website"`
	Description string            `json:"description"`
	Rating      float64           `json:"rating"`
	ReviewCount int               `json:"reviewCount"`
	Services    []string          `json:"services"`
	Schedule    map[string]string `json:"schedule"`
	Reviews     []Review          `json:"reviews,omitempty"`
}

// Review represents a patient review of a clinic. Rating is an integer 1-5,
// unlike Clinic.Rating which is the float average.
type Review struct {
	ID     int    `json:"id"`
	Author string `json:"author"`
	Rating int    `json:"rating"`
	Date   string `json:"date"`
	Text   string `json:"text"`
	Avatar string `json:"avatar,omitempty"`
}

// AdminClinic is the reduced clinic record returned by the admin listing.
type AdminClinic struct {
	ID      int    `json:"id"`
	Name    string `json:"name"`
	Address string `json:"address"`
	Phone   string `json:"phone"`
	Email   string `json:"email"`
}

// ClinicInput is the write shape for admin create/update. The backend takes
// the image under image_url on writes and serves it back as image on reads.
type ClinicInput struct {
	ID          int               `json:"id,omitempty"`
	Name        string            `json:"name"`
	ImageURL    string            `json:"image_url"`
	Address     string            `json:"address"`
	Phone       string            `json:"phone"`
	Email       string            `json:"email"`
	Website     string            `json:"website"`
	Description string            `json:"description"`
	Services    []string          `json:"services"`
	Schedule    map[string]string `json:"schedule"`
}
