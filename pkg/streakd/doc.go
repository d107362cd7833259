// Package streakd provides a Go SDK for the streakd habit tracking server.
//
// Every accepted completion extends or resets the habit's streak and awards
// experience points to its owner. The server enforces one completion per
// habit per calendar period; a second attempt fails with ALREADY_COMPLETED.
//
// # Getting Started
//
// Make sure the server is running (streakd serve), then create a client:
//
//	client, err := streakd.NewClient(
//	    streakd.WithUserID("usr-..."),
//	)
//	if err != nil {
//	    log.Fatal(err)
//	}
//
// A client without a user can still call Health and RegisterUser:
//
//	user, err := client.RegisterUser(ctx, "alice", "alice@example.com")
//
// # Habits
//
//	habit, err := client.CreateHabit(ctx, "Meditate",
//	    streakd.WithDescription("Ten minutes"),
//	    streakd.WithReminderTime("07:00"),
//	)
//
//	habits, err := client.ListHabits(ctx, streakd.WithPage(1), streakd.WithPerPage(20))
//
// # Completing a Habit
//
//	result, err := client.CompleteHabit(ctx, habit.ID, streakd.WithReflection("felt calm"))
//	if streakd.IsAlreadyCompleted(err) {
//	    // already done for today
//	}
//	if result.LeveledUp {
//	    fmt.Printf("level %d!\n", result.User.Level)
//	}
//
// # Error Handling
//
// API failures are returned as *Error values carrying the server's error
// code. Use the Is* helpers to test for specific conditions:
//
//	if streakd.IsServerNotRunning(err) {
//	    // start the server first
//	}
package streakd
