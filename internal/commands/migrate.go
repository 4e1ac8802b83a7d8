package commands

import (
	"fmt"
	"log"

	"github.com/darkside779/attendance/internal/pkg/repository/postgresql"

	"github.com/pkg/errors"
)

// ErrHelp provides context that help was given.
var ErrHelp = errors.New("provided help")

type Scheme struct {
	Index       int
	Description string
	Query       string
}

var scheme = []Scheme{
	{
		Index:       1,
		Description: "CREATE TYPE \"user_role\" AS ENUM",
		Query: `
        CREATE TYPE "user_role" AS ENUM ('EMPLOYEE', 'ADMIN', 'ACCOUNTING', 'DASHBOARD');`,
	},
	{
		Index:       2,
		Description: "Create table: users.",
		Query: `
        CREATE TABLE IF NOT EXISTS users (
            id serial primary key,
            username text not null unique,
            full_name text,
            password text not null,
            role user_role,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       3,
		Description: "Create user with username: admin, password: 1",
		Query: `
        INSERT INTO users(username, role, password)
        SELECT 'admin', 'ADMIN', '$2a$10$NKtnMwDPFSQLG6uOi4Zqheru5Ygbj9TWFHjpl478rRSaO5cJ9QuH2'
        WHERE NOT EXISTS (SELECT username FROM users WHERE username = 'admin');
        `,
	},
	{
		Index:       4,
		Description: "Create table: employees.",
		Query: `
        CREATE TABLE IF NOT EXISTS employees (
            id serial primary key,
            code varchar(20) not null unique,
            full_name varchar(100) not null,
            phone varchar(20),
            email varchar(100),
            department varchar(50),
            position varchar(50),
            hire_date timestamp,
            hourly_rate int default 0,
            is_active boolean default true,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       5,
		Description: "Create table: face_descriptors.",
		Query: `
        CREATE TABLE IF NOT EXISTS face_descriptors (
            id serial primary key,
            employee_id int not null references employees(id),
            descriptor jsonb not null,
            label varchar(50),
            created_at timestamp default now(),
            created_by int references users(id)
        );
        CREATE INDEX IF NOT EXISTS face_descriptors_employee_id ON face_descriptors(employee_id);`,
	},
	{
		Index:       6,
		Description: "Create table: attendance.",
		Query: `
        CREATE TABLE IF NOT EXISTS attendance (
            id serial primary key,
            employee_id int not null references employees(id),
            work_day date not null,
            check_in timestamp not null,
            check_out timestamp,
            total_hours numeric(6,2),
            status varchar(20) not null default 'checked_in',
            notes varchar(255),
            created_at timestamp default now(),
            updated_at timestamp
        );
        CREATE UNIQUE INDEX IF NOT EXISTS attendance_employee_work_day
            ON attendance(employee_id, work_day);`,
	},
	{
		Index:       7,
		Description: "Create table: attendance_modifications.",
		Query: `
        CREATE TABLE IF NOT EXISTS attendance_modifications (
            id serial primary key,
            attendance_id int not null references attendance(id),
            field_changed varchar(50) not null,
            old_value varchar(255),
            new_value varchar(255),
            reason text not null,
            modified_by int not null references users(id),
            created_at timestamp default now()
        );
        CREATE INDEX IF NOT EXISTS attendance_modifications_attendance_id
            ON attendance_modifications(attendance_id);`,
	},
	{
		Index:       8,
		Description: "Create table: shifts.",
		Query: `
        CREATE TABLE IF NOT EXISTS shifts (
            id serial primary key,
            employee_id int references employees(id),
            shift_name varchar(50) not null,
            start_time time not null,
            end_time time not null,
            days_of_week jsonb not null default '[]',
            description text,
            is_active boolean default true,
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       9,
		Description: "Create table: payroll_periods.",
		Query: `
        CREATE TABLE IF NOT EXISTS payroll_periods (
            id serial primary key,
            name varchar(100) not null,
            start_date date not null,
            end_date date not null,
            status varchar(20) default 'draft',
            created_at timestamp default now(),
            created_by int references users(id),
            updated_at timestamp,
            updated_by int references users(id),
            deleted_at timestamp,
            deleted_by int references users(id)
        );`,
	},
	{
		Index:       10,
		Description: "Create table: payroll_records.",
		Query: `
        CREATE TABLE IF NOT EXISTS payroll_records (
            id serial primary key,
            employee_id int not null references employees(id),
            period_id int not null references payroll_periods(id),
            total_hours numeric(8,2) default 0,
            regular_hours numeric(8,2) default 0,
            overtime_hours numeric(8,2) default 0,
            days_worked int default 0,
            regular_pay int default 0,
            overtime_pay int default 0,
            gross_pay int default 0,
            net_pay int default 0,
            status varchar(20) default 'calculated',
            notes text,
            created_at timestamp default now(),
            approved_by int references users(id),
            approved_at timestamp
        );
        CREATE UNIQUE INDEX IF NOT EXISTS payroll_records_employee_period
            ON payroll_records(employee_id, period_id);`,
	},
}

// Migrate creates the scheme in the database.
func Migrate(db *postgresql.Database) {
	for _, s := range scheme {
		if _, err := db.Query(s.Query); err != nil {
			log.Fatalln("migrate error", err)
		}
	}
}

func MigrateUP(db *postgresql.Database) {
	var (
		version int
		dirty   bool
		er      *string
	)
	err := db.QueryRow("SELECT version, dirty, error FROM schema_migrations").Scan(&version, &dirty, &er)
	if err != nil {
		if err.Error() == `ERROR: relation "schema_migrations" does not exist (SQLSTATE=42P01)` {
			if _, err = db.Exec(`
				CREATE TABLE IF NOT EXISTS schema_migrations (version int not null, dirty bool not null, error text);
				DELETE FROM schema_migrations;
				INSERT INTO schema_migrations (version, dirty) values (0, false);
			`); err != nil {
				log.Fatalln("migrate schema_migrations create error", err)
			}
			version = 0
			dirty = false
		} else {
			log.Fatalln("migrate schema_migrations scan: ", err)
		}
	}

	if dirty {
		for _, v := range scheme {
			if v.Index == version {
				if _, err = db.Exec(v.Query); err != nil {
					if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s'`, err.Error())); err != nil {
						log.Fatalln("migrate error", err)
					}
					log.Fatalln(fmt.Sprintf("migrate error version: %d", version), err)
				}
				if _, err = db.Exec(`UPDATE schema_migrations SET dirty = false, error = null`); err != nil {
					log.Fatalln("migrate error", err)
				}
			}
		}
	}

	for _, s := range scheme {
		if s.Index > version {
			if _, err = db.Exec(s.Query); err != nil {
				if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET error = '%s', version = %d, dirty = true`, err.Error(), s.Index)); err != nil {
					log.Fatalln("migrate error", err)
				}
				log.Fatalln(fmt.Sprintf("migrate error version: %d", s.Index), err)
			}
			if _, err = db.Exec(fmt.Sprintf(`UPDATE schema_migrations SET version = %d`, s.Index)); err != nil {
				log.Fatalln("migrate error", err)
			}
		}
	}
}
