package domain

// Team is one real-world team. Identity is the pointer itself: two teams
// are the same team only if they are the same object, so renaming a team
// never breaks the references held by responses.
type Team struct {
	// ID is the stable key from the source data (the value in the
	// team-identity column of the round files).
	ID string
	// Name is the display name, set once when the team is first seen.
	Name string
}

// NewTeam creates a team with the given identity and display name.
func NewTeam(id, name string) *Team {
	return &Team{ID: id, Name: name}
}
