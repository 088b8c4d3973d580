package repository

// Option applies a configuration option to the TreapBoard.
type Option func(*TreapBoard)
