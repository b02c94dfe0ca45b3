package domain

// User is a person record served by the users API.
type User struct {
	ID       string   `json:"id"`
	Username string   `json:"username"`
	Age      int      `json:"age"`
	Hobbies  []string `json:"hobbies"`
}

// Clone returns a copy of u that shares no memory with it.
func (u User) Clone() User {
	hobbies := make([]string, len(u.Hobbies))
	copy(hobbies, u.Hobbies)
	u.Hobbies = hobbies
	return u
}
