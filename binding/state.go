package binding

// String the state name
func (state State) String() string {
	if state == Bound {
		return "bound"
	}
	return "unbound"
}
