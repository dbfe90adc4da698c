package usecase

// DueWindow is exported for testing
var DueWindow = dueWindow
