package repository

// AadhaarDirectory answers membership checks against the set of national id
// numbers accepted for identity verification. The production deployment
// would front a government API; locally it is a closed allow-list.
type AadhaarDirectory interface {
	Contains(nationalID string) (bool, error)
}
