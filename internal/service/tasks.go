package service

// NextID returns the id for a new task: the largest id in tasks plus one,
// or 1 for an empty list.
//
// Ids are only unique among the tasks currently stored. Deleting the task
// holding the largest id lets the next Append hand that id out again.
func NextID(tasks []Task) int {
	maxID := 0
	for _, t := range tasks {
		if t.ID > maxID {
			maxID = t.ID
		}
	}
	return maxID + 1
}

// Append adds a new open task with the next id to the end of tasks.
func Append(tasks []Task, title string) ([]Task, Task) {
	task := Task{
		ID:    NextID(tasks),
		Title: title,
	}
	return append(tasks, task), task
}

// Complete marks the first task with id as completed, in place.
// Returns the updated task and whether one was found.
func Complete(tasks []Task, id int) (Task, bool) {
	for i := range tasks {
		if tasks[i].ID == id {
			tasks[i].Completed = true
			return tasks[i], true
		}
	}
	return Task{}, false
}

// Remove deletes the first task with id, keeping the order of the rest.
// Returns the remaining tasks, the removed task, and whether one was found.
func Remove(tasks []Task, id int) ([]Task, Task, bool) {
	for i, t := range tasks {
		if t.ID == id {
			rest := make([]Task, 0, len(tasks)-1)
			rest = append(rest, tasks[:i]...)
			rest = append(rest, tasks[i+1:]...)
			return rest, t, true
		}
	}
	return tasks, Task{}, false
}
