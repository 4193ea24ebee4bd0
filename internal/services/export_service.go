package services

import (
	"bytes"
	"fmt"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"
)

// taskExportPageSize bounds each repository read while walking a
// project's tasks for export. It must stay within MaxPerPage or the
// listing will silently clamp it.
const taskExportPageSize = MaxPerPage

type ExportService struct {
	taskService *TaskService
}

func NewExportService(taskService *TaskService) *ExportService {
	return &ExportService{
		taskService: taskService,
	}
}

// ExportTasks renders the project's active tasks as an .xlsx workbook.
// The project is gated exactly like a task listing: 404 when absent or
// deleted, 403 when owned by someone else.
func (s *ExportService) ExportTasks(userID uuid.UUID, projectID string) (*bytes.Buffer, string, error) {
	project, err := s.taskService.resolveProject(userID, projectID)
	if err != nil {
		return nil, "", err
	}

	f := excelize.NewFile()
	defer f.Close()

	const sheet = "Tasks"
	index, err := f.NewSheet(sheet)
	if err != nil {
		return nil, "", err
	}
	f.SetActiveSheet(index)
	f.DeleteSheet("Sheet1")

	headers := []string{"Title", "Description", "Status", "Priority", "Due Date", "Created At"}
	for i, header := range headers {
		cell, err := excelize.CoordinatesToCellName(i+1, 1)
		if err != nil {
			return nil, "", err
		}
		if err := f.SetCellValue(sheet, cell, header); err != nil {
			return nil, "", err
		}
	}

	row := 2
	for page := 1; ; page++ {
		tasks, meta, err := s.taskService.ListTasks(userID, projectID, page, taskExportPageSize)
		if err != nil {
			return nil, "", err
		}

		for _, task := range tasks {
			priority := ""
			if task.Priority != nil {
				priority = *task.Priority
			}
			dueDate := ""
			if task.DueDate != nil {
				dueDate = *task.DueDate
			}

			values := []interface{}{
				task.Title,
				task.Description,
				task.Status,
				priority,
				dueDate,
				task.CreatedAt.Format("2006-01-02 15:04:05"),
			}
			for i, value := range values {
				cell, err := excelize.CoordinatesToCellName(i+1, row)
				if err != nil {
					return nil, "", err
				}
				if err := f.SetCellValue(sheet, cell, value); err != nil {
					return nil, "", err
				}
			}
			row++
		}

		if page >= meta.LastPage {
			break
		}
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("%s-tasks.xlsx", project.ID.String())
	return buf, filename, nil
}
